// verify_titlecard - 标题卡时间线验证程序
// 用合成时间推进显示状态机并打印透明度时间线，
// 不需要窗口即可人工核对淡入/保持/淡出/停用各节点
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/unluckyjori/interior-title-cards/pkg/config"
	"github.com/unluckyjori/interior-title-cards/pkg/game"
)

type fixedZone string

func (z fixedZone) CurrentZoneName() (string, bool) { return string(z), true }

type fixedHost struct{}

func (fixedHost) ScreenSize() (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

var failures int

func check(name string, passed bool, detail string) {
	status := "✓ PASS"
	if !passed {
		status = "✗ FAIL"
		failures++
	}
	fmt.Printf("%s | %-32s | %s\n", status, name, detail)
}

func main() {
	zone := flag.String("zone", "Facility (Level1Flow)", "zone name to trigger")
	step := flag.Float64("step", 0.05, "simulation step in seconds")
	flag.Parse()

	log.SetOutput(os.Stderr)

	cfg := config.DefaultDisplayConfig()
	cfg.CustomImagesEnabled = false // 纯文字时间线验证

	cache := game.NewAssetCache(game.DefaultAssetCacheCapacity)
	manager := game.NewTitleCardManager(
		cfg,
		game.NewNameOverrideResolver(game.NewOverrideStore(nil)),
		game.NewImageResolver(cfg, cache),
		game.NewOverlayPool(game.DefaultOverlayPoolCapacity),
		fixedHost{},
	)
	manager.SetZoneProvider(fixedZone(*zone))
	manager.TriggerFromZone()

	overlay := manager.ActiveOverlay()
	if overlay == nil {
		fmt.Println("✗ FAIL | trigger                          | no active overlay after trigger")
		os.Exit(1)
	}
	fmt.Printf("card: top=%q interior=%q\n", overlay.TopText.Content, overlay.InteriorText.Content)

	teardownAt := maxf(cfg.TopText.DisplayDuration, cfg.InteriorText.DisplayDuration) +
		maxf(cfg.TopText.FadeOutDuration, cfg.InteriorText.FadeOutDuration)

	elapsed := 0.0
	deactivatedAt := -1.0
	for elapsed <= teardownAt+1.0 {
		manager.Update(*step)
		elapsed += *step
		if manager.ActiveOverlay() == nil && deactivatedAt < 0 {
			deactivatedAt = elapsed
		}
		if o := manager.ActiveOverlay(); o != nil {
			fmt.Printf("t=%5.2fs  top=%.2f  interior=%.2f\n", elapsed, o.TopText.Alpha, o.InteriorText.Alpha)
		}
	}

	check("container deactivated", deactivatedAt >= 0, fmt.Sprintf("at t=%.2fs", deactivatedAt))
	check("deactivation not early", deactivatedAt >= teardownAt,
		fmt.Sprintf("teardown threshold %.2fs", teardownAt))
	check("shown flag persists", manager.Shown(), "cleared only by OnLeave/Reset")

	manager.OnLeave()
	check("OnLeave re-arms", !manager.Shown(), "shown flag cleared")

	if failures > 0 {
		os.Exit(1)
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
