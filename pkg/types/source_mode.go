package types

// SourceMode 定义图片来源层（开发者内置 / 用户自定义）的优先级策略
type SourceMode int

const (
	// SourceDevPriority 先查开发者目录，再查用户目录（默认）
	SourceDevPriority SourceMode = iota
	// SourceUserPriority 先查用户目录，再查开发者目录
	SourceUserPriority
	// SourceDevOnly 仅查开发者目录
	SourceDevOnly
	// SourceUserOnly 仅查用户目录
	SourceUserOnly
)

// 来源目录名常量
const (
	// SourceFolderDev 开发者内置图片目录名
	SourceFolderDev = "dev"
	// SourceFolderUser 用户自定义图片目录名
	SourceFolderUser = "user"
)

// String 返回来源策略的字符串表示
func (m SourceMode) String() string {
	switch m {
	case SourceDevPriority:
		return "DevPriority"
	case SourceUserPriority:
		return "UserPriority"
	case SourceDevOnly:
		return "DevOnly"
	case SourceUserOnly:
		return "UserOnly"
	default:
		return "Unknown"
	}
}

// SourceOrder 返回按优先级排列的候选来源目录名列表
// 非法值（越界）按 SourceDevPriority 处理
func (m SourceMode) SourceOrder() []string {
	switch m {
	case SourceDevOnly:
		return []string{SourceFolderDev}
	case SourceUserOnly:
		return []string{SourceFolderUser}
	case SourceUserPriority:
		return []string{SourceFolderUser, SourceFolderDev}
	default:
		return []string{SourceFolderDev, SourceFolderUser}
	}
}

// ParseSourceMode 将配置字符串解析为 SourceMode
// 无法识别的值回退到 SourceDevPriority
func ParseSourceMode(s string) SourceMode {
	switch s {
	case "user-priority":
		return SourceUserPriority
	case "dev-only":
		return SourceDevOnly
	case "user-only":
		return SourceUserOnly
	case "dev-priority", "":
		return SourceDevPriority
	default:
		return SourceDevPriority
	}
}

// ConfigString 返回来源策略在配置文件中的字符串形式
func (m SourceMode) ConfigString() string {
	switch m {
	case SourceUserPriority:
		return "user-priority"
	case SourceDevOnly:
		return "dev-only"
	case SourceUserOnly:
		return "user-only"
	default:
		return "dev-priority"
	}
}
