package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrValidationFailed 保存前校验未通过（具体失败项由调用方携带）
var ErrValidationFailed = errors.New("数据校验未通过")
