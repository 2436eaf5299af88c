package types

// DisplayType 定义标题卡的图片替换模式
// 决定触发时哪些文字元素允许被图片替换
type DisplayType int

const (
	// DisplayBothSeparate 顶部与主体各自独立解析图片（默认）
	DisplayBothSeparate DisplayType = iota
	// DisplayTopOnly 仅顶部元素解析图片
	DisplayTopOnly
	// DisplayInteriorOnly 仅主体元素解析图片
	DisplayInteriorOnly
	// DisplayCombined 解析单张合并图片，成功时同时隐藏两个文字元素
	DisplayCombined
)

// String 返回显示模式的字符串表示
func (d DisplayType) String() string {
	switch d {
	case DisplayBothSeparate:
		return "BothSeparate"
	case DisplayTopOnly:
		return "TopOnly"
	case DisplayInteriorOnly:
		return "InteriorOnly"
	case DisplayCombined:
		return "Combined"
	default:
		return "Unknown"
	}
}

// ParseDisplayType 将配置字符串解析为 DisplayType
// 无法识别的值回退到 DisplayBothSeparate
func ParseDisplayType(s string) DisplayType {
	switch s {
	case "top-only":
		return DisplayTopOnly
	case "interior-only":
		return DisplayInteriorOnly
	case "combined":
		return DisplayCombined
	case "both-separate", "":
		return DisplayBothSeparate
	default:
		return DisplayBothSeparate
	}
}

// ConfigString 返回显示模式在配置文件中的字符串形式
func (d DisplayType) ConfigString() string {
	switch d {
	case DisplayTopOnly:
		return "top-only"
	case DisplayInteriorOnly:
		return "interior-only"
	case DisplayCombined:
		return "combined"
	default:
		return "both-separate"
	}
}
