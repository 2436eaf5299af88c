// Package app 提供标题卡演示应用的核心包装器
//
// 该包把组装逻辑从 main 包提取出来：打开 gdata 存储、加载显示
// 配置、创建缓存/解析器/对象池/管理器，并实现 ebiten.Game 驱动
// 帧循环。核心组件全部是显式实例，在这里组装后按引用传递，
// 不存在隐藏的全局状态。
package app

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/quasilyte/gdata/v2"

	"github.com/unluckyjori/interior-title-cards/pkg/config"
	"github.com/unluckyjori/interior-title-cards/pkg/game"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 显示配置 YAML 路径，为空或加载失败时使用默认配置
	ConfigPath string
	// Zone 启动后立即触发的分区名（用于快速验证），为空则等按键
	Zone string
}

// sampleZones 演示用的分区名轮换列表（包含若干已知显示变体）
var sampleZones = []string{
	"Facility (Level1Flow)",
	"Haunted Mansion (Level2Flow)",
	"Mineshaft (Level3Flow)",
	"Laboratory (LabFlow)",
	"Storage Depot (WarehouseFlow)",
	"Abandoned Outpost",
}

// App 演示应用，实现 ebiten.Game 接口
// 同时扮演三个协作方：宿主容器（game.Host）、分区元数据提供方
// （game.ZoneProvider）与运行期分区注册表（game.ZoneRegistry）
type App struct {
	displayCfg *config.DisplayConfig
	settings   *game.DisplaySettingsManager
	cache      *game.AssetCache
	manager    *game.TitleCardManager
	discovery  *game.ZoneDiscovery
	fontSource *text.GoTextFaceSource

	zoneIndex int
	inZone    bool
	verbose   bool
}

// NewApp 创建并组装演示应用
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 显示配置：文件缺失不是致命错误，回退到默认值
	displayCfg := config.DefaultDisplayConfig()
	if cfg.ConfigPath != "" {
		loaded, err := config.LoadDisplayConfig(cfg.ConfigPath)
		if err != nil {
			log.Printf("[App] Warning: %v (using default display config)", err)
		} else {
			displayCfg = loaded
		}
	}

	// gdata 跨平台存储：打开失败进入降级模式（覆盖表仅内存）
	gdataManager, err := gdata.Open(gdata.Config{AppName: "interior-title-cards"})
	if err != nil {
		log.Printf("[App] Warning: failed to open gdata storage: %v (overrides will not persist)", err)
		gdataManager = nil
	}

	// 运行期显示设置：首次运行从配置文件播种，此后覆盖配置
	settings, err := game.NewDisplaySettingsManager(gdataManager)
	if err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	settings.ApplyTo(displayCfg)

	a := &App{
		displayCfg: displayCfg,
		settings:   settings,
		verbose:    cfg.Verbose,
	}

	// 组装核心组件（叶子在前）
	a.cache = game.NewAssetCache(game.DefaultAssetCacheCapacity)
	imageResolver := game.NewImageResolver(displayCfg, a.cache)
	overrideStore := game.NewOverrideStore(gdataManager)
	nameResolver := game.NewNameOverrideResolver(overrideStore)
	pool := game.NewOverlayPool(game.DefaultOverlayPoolCapacity)

	a.manager = game.NewTitleCardManager(displayCfg, nameResolver, imageResolver, pool, a)
	a.manager.SetZoneProvider(a)
	a.discovery = game.NewZoneDiscovery(overrideStore, a, displayCfg.MetadataPath)

	// 字体：缺失时跳过文字绘制（仅影响演示渲染，不影响核心逻辑）
	if data, err := os.ReadFile(displayCfg.FontPath); err != nil {
		log.Printf("[App] Warning: failed to read font %s: %v (text rendering disabled)", displayCfg.FontPath, err)
	} else if source, err := text.NewGoTextFaceSource(bytes.NewReader(data)); err != nil {
		log.Printf("[App] Warning: failed to parse font %s: %v (text rendering disabled)", displayCfg.FontPath, err)
	} else {
		a.fontSource = source
	}

	if cfg.Zone != "" {
		a.jumpToZone(cfg.Zone)
	}

	log.Printf("[App] Initialized (images root: %s)", displayCfg.ImagesRoot)
	return a, nil
}

// jumpToZone 把演示状态切到指定分区并触发
func (a *App) jumpToZone(zone string) {
	for i, s := range sampleZones {
		if s == zone {
			a.zoneIndex = i
			break
		}
	}
	a.inZone = true
	a.manager.TriggerFromZone()
}

// ScreenSize 实现 game.Host
func (a *App) ScreenSize() (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// CurrentZoneName 实现 game.ZoneProvider
func (a *App) CurrentZoneName() (string, bool) {
	if !a.inZone {
		return "", false
	}
	return sampleZones[a.zoneIndex], true
}

// AllKnownZones 实现 game.ZoneRegistry
func (a *App) AllKnownZones() []string {
	return sampleZones
}

// Update 更新应用逻辑
// 每个 tick 调用一次（通常每秒 60 次）
//
// 按键：Enter 进入当前分区 / L 离开 / R 重置 / Tab 切换分区 /
// I 切换图片开关（持久化）
func (a *App) Update() error {
	const deltaTime = 1.0 / 60.0

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		a.zoneIndex = (a.zoneIndex + 1) % len(sampleZones)
		log.Printf("[App] Selected zone: %s", sampleZones[a.zoneIndex])
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.inZone = true
		a.manager.TriggerFromZone()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		a.inZone = false
		a.manager.OnLeave()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.manager.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		a.settings.SetCustomImagesEnabled(!a.settings.GetSettings().CustomImagesEnabled)
		if err := a.settings.Save(); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
		a.settings.ApplyTo(a.displayCfg)
		log.Printf("[App] Custom images enabled: %v", a.displayCfg.CustomImagesEnabled)
	}

	a.discovery.Update(deltaTime)
	a.manager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 18, G: 18, B: 24, A: 255})
	a.manager.Draw(screen, a.fontSource)

	hint := fmt.Sprintf("zone: %s\n[Enter] enter  [L] leave  [R] reset  [Tab] next zone  [I] toggle images", sampleZones[a.zoneIndex])
	ebitenutil.DebugPrint(screen, hint)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Teardown 释放核心资源（进程退出前调用）
func (a *App) Teardown() {
	a.manager.Teardown()
	a.cache.Clear()
}
