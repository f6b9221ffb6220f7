// Package cli 实现 sticker 命令行：在底图上绘制文字、浏览底图与样式、生成底图目录。
//
// 所有命令都支持 --verbose 输出调试日志，logger 通过 context.Context 传递给各命令。
//
//	sticker draw "你好/世界" -n 49
//	sticker list -o sheet.png
//	sticker styles
//	sticker catalog generate ./img -o catalog.json
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/sticker/config"
)

const appName = "sticker"

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version, commit, date = v, c, d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer
	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a CLI that prints results to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	return &CLI{
		Logger: newLogger(errOut, log.InfoLevel),
		out:    out,
		cfg:    config.Default(),
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Sticker draws captions onto meme stamps",
		Long:          `sticker 在角色底图上绘制带描边的文字：横排、竖排或弧形排列，按样式贴边、旋转与缩放后输出 PNG。`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Discover(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			level, _ := cfg.Level()
			if c.verbose {
				level = log.DebugLevel
			}
			c.Logger.SetLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "配置文件路径（默认查找 ./"+config.FileName+"）")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "输出调试日志")

	root.AddCommand(c.drawCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.catalogCommand())
	return root
}
