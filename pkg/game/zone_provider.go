package game

// ZoneProvider 当前分区元数据协作方
// 由宿主环境实现，核心在触发时拉取当前分区名
type ZoneProvider interface {
	// CurrentZoneName 返回当前分区名；第二个返回值为 false 表示
	// 当前没有可用的分区信息
	CurrentZoneName() (string, bool)
}

// ZoneRegistry 运行期分区注册表协作方
// 提供所有已知分区的名字，用于预创建覆盖条目
type ZoneRegistry interface {
	// AllKnownZones 返回所有已知分区名；注册表尚未填充时返回空
	AllKnownZones() []string
}

// Host 宿主容器协作方
// 缺失（nil）时 Trigger 安全地退化为 no-op
type Host interface {
	// ScreenSize 返回顶层坐标空间的尺寸
	ScreenSize() (width, height int)
}
