package cli

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/sticker/cache"
	"github.com/ByLCY/sticker/catalog"
	"github.com/ByLCY/sticker/compose"
	"github.com/ByLCY/sticker/errors"
	"github.com/ByLCY/sticker/layout"
	"github.com/ByLCY/sticker/stamp"
)

type drawOptions struct {
	request stamp.Request
	output  string
	debug   string
	padding float64
	seed    int64
}

func (c *CLI) drawCommand() *cobra.Command {
	var (
		opts     drawOptions
		dataJSON string
	)
	cmd := &cobra.Command{
		Use:   "draw <text>...",
		Short: "在底图上绘制文字并输出 PNG",
		Long: `draw 把文字按底图的样式绘制到底图上。多个参数以空格连接，"/" 表示换行。

文字中可以使用 ${path|默认值} 占位符，取值来自 --data 给出的 JSON。

内置字体只含拉丁字符。绘制中文时，请在 sticker.toml 中把 font 指向支持 CJK 的字体文件，
或设置 surface = "canvas" 并使用 font = "system:<字体名>"。`,
		Example: `  sticker draw "你好/世界" -n 49
  sticker draw 好耶 -n 12 --style 1 --set "rotate: -8; share: 0.3" --color "#ff4757"
  sticker draw '${user|某人}来了' -n 3 --data '{"user": "小明"}' -o -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.request.Text = strings.Join(args, " ")
			if dataJSON != "" {
				if err := json.Unmarshal([]byte(dataJSON), &opts.request.Data); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "解析 --data 失败")
				}
			}
			return c.runDraw(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.request.ImageID, "image", "n", catalog.RandomID, "底图 id，-1 表示随机")
	f.IntVarP(&opts.request.StyleID, "style", "s", 0, "样式 id，0 表示使用底图默认样式")
	f.StringVar(&opts.request.Override, "set", "", `覆盖样式字段，例如 "rotate: 10; curve: true"`)
	f.StringVar(&opts.request.Color, "color", "", "文字颜色 #rgb 或 #rrggbb")
	f.StringVar(&dataJSON, "data", "", "占位符取值（JSON）")
	f.StringVarP(&opts.output, "output", "o", "sticker.png", `输出路径，"-" 表示标准输出`)
	f.StringVar(&opts.debug, "debug", "", "排版结果 JSON 输出路径")
	f.Float64Var(&opts.padding, "padding", 0, "画布放大倍数，覆盖配置中的 padding")
	f.Int64Var(&opts.seed, "seed", 0, "随机选图的种子，0 表示按时间")
	return cmd
}

func (c *CLI) runDraw(ctx context.Context, opts drawOptions) error {
	logger := loggerFromContext(ctx)
	env, err := c.loadEnv(ctx)
	if err != nil {
		return err
	}
	padding := c.cfg.Padding
	if opts.padding > 0 {
		padding = opts.padding
	}
	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r, err := stamp.New(stamp.Config{
		Catalog:  env.catalog,
		Styles:   env.styles,
		Surface:  env.surface,
		Composer: compose.New(compose.Options{Padding: padding}),
		Images:   cache.NewMemory(),
		Font:     env.font,
		Logger:   logger,
		Rand:     rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	res, err := r.Render(ctx, opts.request)
	if err != nil {
		return err
	}
	if opts.debug != "" {
		if err := writeDebug(res.Plan, opts.debug); err != nil {
			return err
		}
	}
	if err := c.writeOutput(opts.output, res.PNG); err != nil {
		return err
	}
	if opts.output != "-" {
		prog.done("sticker rendered", "image", res.Entry.ID, "style", res.Style.String(), "bytes", len(res.PNG))
		printSuccess(c.out, "已生成贴纸（底图 %d）", res.Entry.ID)
		printFile(c.out, opts.output)
	}
	return nil
}

func writeDebug(plan *layout.TextPlan, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "创建调试目录失败")
	}
	if err := layout.WriteDebugJSON(plan, path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "输出调试 JSON 失败")
	}
	return nil
}
