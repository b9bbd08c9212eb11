package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ByLCY/sheetpress/config"
	"github.com/ByLCY/sheetpress/dsl"
	"github.com/ByLCY/sheetpress/layout"
	"github.com/ByLCY/sheetpress/logger"
	canvasrenderer "github.com/ByLCY/sheetpress/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/reading-quiz.sheet", "worksheet 定义文件路径")
	output := flag.String("out", "output/reading-quiz.pdf", "PDF 输出路径")
	debug := flag.String("debug", "", "分页调试 JSON 输出路径")
	page := flag.Int("page", 0, "选中页（从 0 开始，仅影响调试 JSON）")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	engine := canvasrenderer.NewRenderer(canvasrenderer.Options{GapMM: cfg.GapMM})
	res, err := run(*input, *output, *debug, *page, cfg.Params(), engine, log)
	if err != nil {
		log.Fatal().Err(err).Msg("生成 PDF 失败")
	}
	log.Info().
		Str("out", *output).
		Int("pages", len(res.Pages)).
		Int("questions", res.QuestionCount()).
		Msg("已生成 PDF")
}

// run 串联解析、测量、分页与渲染。
func run(inputPath, outputPath, debugPath string, selected int, params layout.Params, engine *canvasrenderer.Renderer, log zerolog.Logger) (*layout.Result, error) {
	if engine == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开定义文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	def, err := dsl.Load(file)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("name", def.Name).Int("question_types", len(def.QuestionTypes)).Msg("定义已解析")

	result, err := layout.Build(engine, def, params, selected)
	if err != nil {
		return nil, fmt.Errorf("分页计算失败: %w", err)
	}
	for _, p := range result.Pages {
		evt := log.Debug()
		if p.Oversized {
			evt = log.Warn()
		}
		evt.Int("page", p.Index+1).
			Int("questions", len(p.Questions)).
			Float64("used_mm", p.UsedMM).
			Float64("available_mm", result.AvailableMM).
			Bool("oversized", p.Oversized).
			Msg("page")
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}

	pdfBytes, err := engine.Render(result)
	if err != nil {
		return nil, fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return nil, fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return result, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
