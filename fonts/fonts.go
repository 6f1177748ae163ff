// Package fonts 查找并读取排版所用的字体文件。
//
// 盲文单元需要覆盖 U+2800–U+28FF 的字体，默认使用 DejaVu Sans。
package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSrc 是配置未指定字体时使用的相对路径。
const DefaultSrc = "fonts/DejaVuSans.ttf"

// systemPaths 是常见发行版中 DejaVu Sans 的安装位置。
var systemPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu-sans-fonts/DejaVuSans.ttf",
	"/usr/local/share/fonts/DejaVuSans.ttf",
	"/Library/Fonts/DejaVuSans.ttf",
}

// ErrNotFound 表示所有候选位置都没有字体文件。
var ErrNotFound = errors.New("fonts: 找不到字体文件")

// Candidates 返回 src 的查找顺序：绝对路径，相对 baseDir 的路径，相对工作目录的路径，最后是系统路径。
func Candidates(src, baseDir string) []string {
	var out []string
	if src != "" {
		if filepath.IsAbs(src) {
			out = append(out, src)
		} else {
			if baseDir != "" {
				out = append(out, filepath.Join(baseDir, src))
			}
			out = append(out, src)
		}
	}
	return append(out, systemPaths...)
}

// Load 按 Candidates 的顺序读取第一个存在的字体文件，返回字节与实际路径。
func Load(src, baseDir string) ([]byte, string, error) {
	for _, path := range Candidates(src, baseDir) {
		data, err := os.ReadFile(path)
		if err == nil && len(data) > 0 {
			return data, path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("读取字体 %s 失败: %w", path, err)
		}
	}
	return nil, "", fmt.Errorf("%w: %s", ErrNotFound, src)
}
