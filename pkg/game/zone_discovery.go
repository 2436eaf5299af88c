package game

import (
	"bufio"
	"log"
	"os"
	"strings"
)

// 分区发现的重试策略：注册表未填充时按指数退避重试，
// 3 次之后放弃（覆盖条目保持缺失，显示回退到规范名/原始名）
const (
	discoveryMaxRetries      = 3
	discoveryBaseBackoff     = 3.0  // 秒
	discoveryBackoffCap      = 30.0 // 秒
	discoveryInitialDeadline = 0.0  // 首次尝试不等待
)

// metadataSectionPrefixes 伴随元数据文件中可识别的节前缀
// 形如 "[Interior: Facility]" 或 "[Moon: Experimentation]" 的行
var metadataSectionPrefixes = []string{"Interior:", "Moon:"}

// ZoneDiscovery 分区发现器
//
// 为每个被发现的规范分区惰性创建覆盖条目，发现途径有两个：
//  1. 伴随元数据文件：逐行扫描 [...] 节头（尽力而为，文件缺失
//     不是错误，只是"换另一个来源"）
//  2. 运行期注册表 AllKnownZones()：注册表尚未填充时按
//     3s/6s/12s 指数退避重试（上限 30s），3 次后放弃并记录错误
//
// 与动画同一套帧驱动调度：宿主每帧调用 Update(deltaTime)，
// 没有真实计时器，测试用合成时间推进即可。
type ZoneDiscovery struct {
	store        *OverrideStore
	registry     ZoneRegistry
	metadataPath string

	attempts  int
	nextTryIn float64
	done      bool
}

// NewZoneDiscovery 创建分区发现器
//
// 参数：
//   - store: 覆盖表（发现的分区在此创建条目）
//   - registry: 运行期分区注册表，可为 nil
//   - metadataPath: 伴随元数据文件路径，可为空
func NewZoneDiscovery(store *OverrideStore, registry ZoneRegistry, metadataPath string) *ZoneDiscovery {
	return &ZoneDiscovery{
		store:        store,
		registry:     registry,
		metadataPath: metadataPath,
		nextTryIn:    discoveryInitialDeadline,
	}
}

// Done 返回发现流程是否已结束（成功或放弃）
func (d *ZoneDiscovery) Done() bool {
	return d.done
}

// Update 按帧推进发现流程
//
// 参数：
//   - deltaTime: 自上一帧以来经过的时间（秒）
func (d *ZoneDiscovery) Update(deltaTime float64) {
	if d.done {
		return
	}

	d.nextTryIn -= deltaTime
	if d.nextTryIn > 0 {
		return
	}

	if d.tryDiscover() {
		d.done = true
		return
	}

	d.attempts++
	if d.attempts > discoveryMaxRetries {
		log.Printf("[ZoneDiscovery] Error: zone registry still empty after %d retries, giving up", discoveryMaxRetries)
		d.done = true
		return
	}

	backoff := discoveryBaseBackoff
	for i := 1; i < d.attempts; i++ {
		backoff *= 2
	}
	if backoff > discoveryBackoffCap {
		backoff = discoveryBackoffCap
	}
	d.nextTryIn = backoff
	log.Printf("[ZoneDiscovery] Warning: zone registry not ready, retrying in %.0fs (attempt %d/%d)",
		backoff, d.attempts, discoveryMaxRetries)
}

// tryDiscover 执行一轮发现，成功（找到至少一个分区）返回 true
func (d *ZoneDiscovery) tryDiscover() bool {
	// 途径 1：伴随元数据文件（尽力而为）
	if d.metadataPath != "" {
		if zones := scanMetadataFile(d.metadataPath); len(zones) > 0 {
			d.seed(zones)
			log.Printf("[ZoneDiscovery] Discovered %d zones from metadata file %s", len(zones), d.metadataPath)
			return true
		}
	}

	// 途径 2：运行期注册表
	if d.registry != nil {
		if zones := d.registry.AllKnownZones(); len(zones) > 0 {
			d.seed(zones)
			log.Printf("[ZoneDiscovery] Discovered %d zones from runtime registry", len(zones))
			return true
		}
	}

	return false
}

// seed 为每个发现的分区创建覆盖条目（收敛到规范名）
func (d *ZoneDiscovery) seed(zones []string) {
	for _, zone := range zones {
		zone = strings.TrimSpace(zone)
		if zone == "" {
			continue
		}
		d.store.EnsureEntry(CanonicalZoneName(zone))
	}
}

// scanMetadataFile 逐行扫描伴随元数据文件，提取形如
// "[<prefix> <name>]" 的节头里的分区名。文件缺失或没有任何
// 可识别节头时返回空，这不是错误，只代表该来源不可用。
func scanMetadataFile(path string) []string {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var zones []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			continue
		}
		section := strings.TrimSpace(line[1 : len(line)-1])
		for _, prefix := range metadataSectionPrefixes {
			if strings.HasPrefix(section, prefix) {
				name := strings.TrimSpace(strings.TrimPrefix(section, prefix))
				if name != "" {
					zones = append(zones, name)
				}
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[ZoneDiscovery] Warning: error scanning metadata file %s: %v", path, err)
	}
	return zones
}
