package bip32

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidatePath 基本检查: 路径可解析，且恰好有 PathParts 段
func ValidatePath(path string) error {
	parts := len(strings.Split(path, "/"))
	if parts != PathParts {
		return fmt.Errorf("%w: 期望 %d 段, 实际 %d 段", ErrInvalidPath, PathParts, parts)
	}
	_, err := ParsePath(path)
	return err
}

// IndexFromPath 返回路径最后一段的地址索引
func IndexFromPath(path string) (uint32, error) {
	if err := ValidatePath(path); err != nil {
		return 0, err
	}
	last := path[strings.LastIndex(path, "/")+1:]
	if strings.HasSuffix(last, "'") || strings.HasSuffix(last, "h") {
		return 0, fmt.Errorf("%w: 地址索引不能是硬化段 '%s'", ErrInvalidPath, last)
	}
	index, err := strconv.ParseUint(last, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	return uint32(index), nil
}

// ReplaceIndex 用 index 替换路径的最后一段
func ReplaceIndex(path string, index uint32) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}
	return path[:strings.LastIndex(path, "/")+1] + strconv.FormatUint(uint64(index), 10), nil
}
