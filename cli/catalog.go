package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/sticker/catalog"
	"github.com/ByLCY/sticker/errors"
)

func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "管理底图目录",
	}
	cmd.AddCommand(c.catalogGenerateCommand())
	return cmd
}

func (c *CLI) catalogGenerateCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "generate <dir>",
		Short: "扫描图片目录生成底图目录 JSON",
		Long: `generate 递归扫描目录中的 png/jpg/gif 图片，按路径排序编号，
颜色默认为 #ffffff、样式默认为 1，生成后可手动调整。`,
		Example: `  sticker catalog generate ./img -o ./img/catalog.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := catalog.Generate(os.DirFS(args[0]), ".")
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "序列化底图目录失败")
			}
			data = append(data, '\n')
			if err := c.writeOutput(output, data); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("catalog generated", "images", len(entries))
			if output != "-" {
				printFile(c.out, output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", `输出路径，"-" 表示标准输出`)
	return cmd
}
