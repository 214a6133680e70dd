package util

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // 注册 GIF 解码
	_ "image/jpeg" // 注册 JPEG 解码
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/segmentio/ksuid"
	_ "golang.org/x/image/webp" // 注册 WebP 解码
)

// IsURL 判断输入是否为 http(s) 地址
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// DownloadImage 下载图片
func DownloadImage(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: status code %d", resp.StatusCode)
	}

	imgData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// OpenImage 打开本地图片
func OpenImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image (format: %s): %w", format, err)
	}
	return img, nil
}

// EncodePNG 编码为 PNG，compress 时使用最高压缩级别
func EncodePNG(w io.Writer, img image.Image, compress bool) error {
	enc := &png.Encoder{CompressionLevel: png.DefaultCompression}
	if compress {
		enc.CompressionLevel = png.BestCompression
	}
	return enc.Encode(w, img)
}

// SavePNG 先写同目录下的临时文件，成功后再重命名覆盖目标
// 任何一步失败都会删除临时文件，原文件保持不变
// 目标是符号链接时写入链接指向的文件，已有文件的权限保持不变
func SavePNG(path string, img image.Image, compress bool) (err error) {
	mode := os.FileMode(0o644)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	tmpPath := filepath.Join(dir, "."+base+"."+ksuid.New().String()+".tmp")

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = f.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = EncodePNG(f, img, compress); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// FindImages 在多个目录下按 pattern 查找文件，结果排序去重，不存在的目录直接跳过
func FindImages(dirs []string, pattern string) ([]string, error) {
	var paths []string
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			paths = append(paths, m)
		}
	}
	slices.Sort(paths)
	return slices.Compact(paths), nil
}
