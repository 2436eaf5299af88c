package config

// 演示窗口的逻辑尺寸
// 标题卡坐标以该逻辑坐标空间为准，Ebitengine 自行处理缩放
const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 800
	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 600
)
