package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/paintjr/paintjr/document"
	"github.com/paintjr/paintjr/renderer"
	previewrenderer "github.com/paintjr/paintjr/renderer/preview"
	printrenderer "github.com/paintjr/paintjr/renderer/print"
	rasterrenderer "github.com/paintjr/paintjr/renderer/raster"
	"github.com/paintjr/paintjr/scene"
	"github.com/paintjr/paintjr/sketch"
)

func main() {
	input := flag.String("in", "examples/demo.sketch", "sketch 文件路径")
	output := flag.String("out", "output/drawing.png", "导出文件路径")
	format := flag.String("format", "png", "导出格式: png/pdf/preview")
	scale := flag.Float64("scale", 1.0, "光栅化密度（像素/画布单位）")
	ratio := flag.Float64("stroke-ratio", document.DefaultRasterRatio, "名义线宽到光栅线宽的校准系数 k")
	debug := flag.String("debug", "", "文档调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 sketch 的 JSON 数据")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	r, err := newRenderer(*format, *scale, *ratio)
	if err != nil {
		log.Fatalf("导出失败: %v", err)
	}
	if err := run(*input, *output, *debug, inputData, r); err != nil {
		log.Fatalf("导出失败: %v", err)
	}
	fmt.Printf("已导出：%s\n", *output)
}

// newRenderer 根据导出格式选择渲染后端。
func newRenderer(format string, scale, ratio float64) (renderer.Renderer, error) {
	cal := document.DefaultCalibration()
	cal.RasterRatio = ratio
	if err := cal.Validate(); err != nil {
		return nil, fmt.Errorf("校准系数不合法: %w", err)
	}
	switch strings.ToLower(format) {
	case "png":
		return rasterrenderer.NewRendererWithOptions(rasterrenderer.Options{
			Scale:       scale,
			Calibration: cal,
		}), nil
	case "pdf":
		return printrenderer.NewRendererWithOptions(printrenderer.Options{
			Calibration: cal,
		}), nil
	case "preview":
		return previewrenderer.NewRendererWithOptions(previewrenderer.Options{
			Scale: scale,
		}), nil
	default:
		return nil, fmt.Errorf("未知的导出格式 %q", format)
	}
}

// run 串联解析、编译与渲染。
func run(inputPath, outputPath, debugPath string, data any, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 sketch 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	ast, err := sketch.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 sketch 失败: %w", err)
	}

	doc, err := scene.Build(ast, scene.BuildOptions{
		BaseDir: filepath.Dir(inputPath),
		Data:    data,
	})
	if err != nil {
		return fmt.Errorf("编译文档失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(doc, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	out, err := r.Render(doc)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("写入导出文件失败: %w", err)
	}

	return nil
}

func writeDebug(doc *document.Document, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := document.WriteDebugJSON(doc, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
