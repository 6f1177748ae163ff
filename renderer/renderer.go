package renderer

import "github.com/avrilemay/braille-newsletter/layout"

// Renderer 将分页结果输出为最终文件（PDF）。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Backend 同时负责测量/自动折行与最终渲染，保证排版与输出使用同一套字体度量。
type Backend interface {
	Renderer
	layout.Typesetter
}
