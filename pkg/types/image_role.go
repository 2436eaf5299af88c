// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// ImageRole 定义标题卡图片所替换的元素角色
type ImageRole int

const (
	// RoleTop 顶部小字元素（"Now entering" 一类的提示行）
	RoleTop ImageRole = iota
	// RoleInterior 主体文字元素（室内名称）
	RoleInterior
	// RoleCombined 合并图片，同时替换顶部与主体文字
	RoleCombined
)

// String 返回角色的字符串表示
func (r ImageRole) String() string {
	switch r {
	case RoleTop:
		return "Top"
	case RoleInterior:
		return "Interior"
	case RoleCombined:
		return "Combined"
	default:
		return "Unknown"
	}
}

// FolderName 返回角色在图片目录约定中对应的子目录名
//
// 磁盘布局约定：
//
//	<root>/{dev|user}/<SanitizedZoneName>/{TopText|InteriorText|Combined}/
func (r ImageRole) FolderName() string {
	switch r {
	case RoleTop:
		return "TopText"
	case RoleInterior:
		return "InteriorText"
	case RoleCombined:
		return "Combined"
	default:
		return "InteriorText"
	}
}
