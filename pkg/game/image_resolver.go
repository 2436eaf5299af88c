package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/zyedidia/generic/mapset"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp" // Register BMP decoder

	"github.com/unluckyjori/interior-title-cards/pkg/config"
	"github.com/unluckyjori/interior-title-cards/pkg/types"
)

// Image validation limits. Files outside these bounds are rejected and the
// resolver falls through to the next source (or to plain text).
const (
	// MaxImageFileSize is the largest accepted image file (10 MiB).
	MaxImageFileSize = 10 * 1024 * 1024
	// MinImageDimension / MaxImageDimension bound decoded width and height.
	MinImageDimension = 16
	MaxImageDimension = 4096
	// MinImageAspect / MaxImageAspect bound width/height ratio.
	MinImageAspect = 0.1
	MaxImageAspect = 10.0

	// maxSanitizedNameLength caps a zone name used as a path segment.
	maxSanitizedNameLength = 100
)

// pngMagic is the fixed 8-byte PNG file signature.
var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// candidateExtensions are tried in order for every candidate filename.
// A .tga hit is still probed for completeness of the on-disk contract but
// fails decode (no TGA decoder is registered) and falls through like any
// other invalid asset.
var candidateExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tga", ".gif"}

// ImageResolver finds, validates, decodes and resizes the title card image
// for a zone, backed by an AssetCache so repeated triggers for the same
// zone never touch the disk twice.
//
// Lookup contract (per role):
//
//	<root>/{dev|user}/<SanitizedZoneName>/{TopText|InteriorText|Combined}/
//
// probed with the candidate filenames image, <zone lowercased>,
// <zone lowercased, underscores removed>, titlecard, card across the
// supported extensions. The first existing, non-blacklisted file that
// survives validation wins; sources are tried strictly in the priority
// order and never merged.
type ImageResolver struct {
	root  string
	cfg   *config.DisplayConfig
	cache *AssetCache

	// blacklist holds normalized path fragments; a resolved image is
	// rejected when its relative path, or any ancestor directory of it,
	// is present in the set.
	blacklist mapset.Set[string]
}

// NewImageResolver creates a resolver rooted at cfg.ImagesRoot. The
// blacklist is parsed from cfg.Blacklist (comma-separated fragments).
func NewImageResolver(cfg *config.DisplayConfig, cache *AssetCache) *ImageResolver {
	r := &ImageResolver{
		root:      cfg.ImagesRoot,
		cfg:       cfg,
		cache:     cache,
		blacklist: mapset.New[string](),
	}
	r.SetBlacklist(cfg.Blacklist)
	return r
}

// SetBlacklist replaces the active blacklist with the fragments parsed
// from a comma-separated list. Fragments are normalized (backslashes to
// slashes, lowercased, trimmed) before insertion.
func (r *ImageResolver) SetBlacklist(csv string) {
	r.blacklist = mapset.New[string]()
	for _, raw := range strings.Split(csv, ",") {
		fragment := normalizePathFragment(raw)
		if fragment == "" {
			continue
		}
		r.blacklist.Put(fragment)
	}
}

// Resolve returns the decoded, size-constrained image for a zone and role,
// or false when no source yields a valid image.
//
// The caller is expected to have checked the global custom-images flag
// already; Resolve itself only implements the per-source lookup. All
// failures are non-fatal: they are logged and the resolver falls through
// to the next source, eventually reporting "no image".
func (r *ImageResolver) Resolve(zoneName string, role types.ImageRole, mode types.SourceMode) (*ImageAsset, bool) {
	sanitized := SanitizeZoneName(zoneName)

	for _, source := range mode.SourceOrder() {
		asset, ok := r.resolveFromSource(source, sanitized, role)
		if ok {
			return asset, true
		}
	}
	return nil, false
}

// resolveFromSource runs the lookup for a single source tier.
func (r *ImageResolver) resolveFromSource(source, sanitizedZone string, role types.ImageRole) (*ImageAsset, bool) {
	dir := filepath.Join(r.root, source, sanitizedZone, role.FolderName())

	// Directory creation is idempotent and best-effort: a failure only
	// means this source cannot contribute an image.
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("[ImageResolver] Warning: cannot create image directory %s: %v", dir, err)
		return nil, false
	}

	path, ok := r.probeCandidates(dir, sanitizedZone)
	if !ok {
		return nil, false
	}

	if r.isBlacklisted(path) {
		log.Printf("[ImageResolver] Skipping blacklisted image %s", path)
		return nil, false
	}

	// Cache hit short-circuits validation and decode.
	if asset, ok := r.cache.Get(path); ok {
		return asset, true
	}

	asset, err := r.loadAsset(path, role)
	if err != nil {
		log.Printf("[ImageResolver] Warning: rejecting image %s: %v", path, err)
		return nil, false
	}

	r.cache.Put(path, asset)
	return asset, true
}

// probeCandidates returns the first existing candidate file in dir.
func (r *ImageResolver) probeCandidates(dir, sanitizedZone string) (string, bool) {
	lowered := strings.ToLower(sanitizedZone)
	names := []string{
		"image",
		lowered,
		strings.ReplaceAll(lowered, "_", ""),
		"titlecard",
		"card",
	}

	for _, name := range names {
		for _, ext := range candidateExtensions {
			path := filepath.Join(dir, name+ext)
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			return path, true
		}
	}
	return "", false
}

// isBlacklisted reports whether the resolved path, relative to the images
// root, matches a blacklist fragment exactly or lies under a blacklisted
// ancestor directory.
func (r *ImageResolver) isBlacklisted(path string) bool {
	if r.blacklist.Size() == 0 {
		return false
	}

	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		rel = path
	}
	rel = normalizePathFragment(rel)

	if r.blacklist.Has(rel) {
		return true
	}

	segments := strings.Split(rel, "/")
	for i := 1; i < len(segments); i++ {
		ancestor := strings.Join(segments[:i], "/")
		if r.blacklist.Has(ancestor) {
			return true
		}
	}
	return false
}

// loadAsset validates, decodes and resizes a candidate image file.
func (r *ImageResolver) loadAsset(path string, role types.ImageRole) (asset *ImageAsset, err error) {
	// Decoder panics on corrupt data must not escape the resolver; they
	// degrade to a resolution failure like any other asset error.
	defer func() {
		if rec := recover(); rec != nil {
			asset = nil
			err = fmt.Errorf("panic while decoding %s: %v", path, rec)
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat failed: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	if info.Size() > MaxImageFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (limit %d)", info.Size(), MaxImageFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".png") && !bytes.HasPrefix(data, pngMagic) {
		return nil, fmt.Errorf("invalid PNG signature")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < MinImageDimension || h < MinImageDimension || w > MaxImageDimension || h > MaxImageDimension {
		return nil, fmt.Errorf("dimensions %dx%d outside [%d, %d]", w, h, MinImageDimension, MaxImageDimension)
	}
	aspect := float64(w) / float64(h)
	if aspect < MinImageAspect || aspect > MaxImageAspect {
		return nil, fmt.Errorf("aspect ratio %.3f outside [%.1f, %.1f]", aspect, MinImageAspect, MaxImageAspect)
	}

	box := r.cfg.ImageBoxForRole(role)
	img = fitWithin(img, box.MaxWidth, box.MaxHeight)
	bounds = img.Bounds()

	log.Printf("[ImageResolver] Loaded %s image %s (%s, %dx%d)", role, path, format, bounds.Dx(), bounds.Dy())
	return &ImageAsset{
		Path:   path,
		Image:  ebiten.NewImageFromImage(img),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// fitWithin scales img down to fit inside maxW x maxH with bilinear
// filtering, preserving aspect ratio. A zero on either axis means "native
// size for that axis"; the resize is skipped entirely when the target is
// at least as large as the image on both axes.
func fitWithin(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	targetW, targetH := maxW, maxH
	if targetW <= 0 {
		targetW = w
	}
	if targetH <= 0 {
		targetH = h
	}
	if targetW >= w && targetH >= h {
		return img
	}

	scale := float64(targetW) / float64(w)
	if s := float64(targetH) / float64(h); s < scale {
		scale = s
	}

	newW := int(float64(w)*scale + 0.5)
	newH := int(float64(h)*scale + 0.5)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// SanitizeZoneName turns an arbitrary zone name into a safe path segment:
// path separators and OS-invalid filename characters become underscores,
// runs of underscores collapse to one, the result is trimmed and capped at
// 100 characters, and an empty result falls back to "Unknown".
func SanitizeZoneName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|' || r == '.':
			b.WriteRune('_')
		case r < 0x20:
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	sanitized := b.String()
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_ ")

	if len(sanitized) > maxSanitizedNameLength {
		sanitized = strings.Trim(sanitized[:maxSanitizedNameLength], "_ ")
	}
	if sanitized == "" {
		return "Unknown"
	}
	return sanitized
}

// normalizePathFragment canonicalizes a path fragment for blacklist
// comparison: backslashes become slashes, the fragment is lowercased and
// stripped of surrounding whitespace and slashes.
func normalizePathFragment(fragment string) string {
	fragment = strings.ReplaceAll(fragment, "\\", "/")
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	return strings.Trim(fragment, "/")
}
