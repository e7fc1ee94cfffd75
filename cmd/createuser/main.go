// createuser 创建登录账号（首个管理员、教师账号）。
//
//	UNI_NEW_PASSWORD=secret go run ./cmd/createuser -login admin -name 管理员 -role admin
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"uniclass/backend/config"
	"uniclass/backend/internal/model"
	"uniclass/backend/internal/repository"
	"uniclass/backend/pkg/database"
	applogger "uniclass/backend/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "配置文件路径")
		login      = flag.String("login", "", "登录账号")
		name       = flag.String("name", "", "显示名称")
		email      = flag.String("email", "", "邮箱（选填）")
		role       = flag.String("role", model.RoleInstructor, "角色: admin | instructor | student")
	)
	flag.Parse()
	_ = godotenv.Load()

	// 密码只从环境变量读取，避免出现在 shell 历史中
	password := os.Getenv("UNI_NEW_PASSWORD")
	if *login == "" || *name == "" || password == "" {
		fmt.Fprintln(os.Stderr, "用法: UNI_NEW_PASSWORD=... createuser -login <login> -name <name> [-role instructor]")
		os.Exit(2)
	}
	switch *role {
	case model.RoleAdmin, model.RoleInstructor, model.RoleStudent:
	default:
		fmt.Fprintf(os.Stderr, "未知角色: %s\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("生成密码哈希失败", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user := &model.User{
		Login:        *login,
		Name:         *name,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         *role,
	}
	if err := repository.NewRepository(db).User.Create(ctx, user); err != nil {
		logger.Fatal("创建用户失败", zap.String("login", *login), zap.Error(err))
	}

	logger.Info("用户已创建", zap.String("user_id", user.UserID), zap.String("role", user.Role))
}
