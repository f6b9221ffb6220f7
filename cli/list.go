package cli

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ByLCY/sticker/cache"
	"github.com/ByLCY/sticker/sheet"
)

func (c *CLI) listCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "列出底图，可选输出带编号的缩略图总览",
		Example: `  sticker list
  sticker list -o sheet.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runList(cmd.Context(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "总览图输出路径")
	return cmd
}

func (c *CLI) runList(ctx context.Context, output string) error {
	env, err := c.loadEnv(ctx)
	if err != nil {
		return err
	}
	entries := env.catalog.Entries()
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(e.ID), strconv.Itoa(e.StyleID), e.Color, e.Path()}
	}
	printTable(c.out, []string{"id", "style", "color", "file"}, rows)
	if output == "" {
		return nil
	}

	logger := loggerFromContext(ctx)
	var fc *cache.FileCache
	if c.cfg.CacheDir != "" {
		if fc, err = cache.NewFileCache(c.cfg.Path(c.cfg.CacheDir)); err != nil {
			logger.Warn("sheet cache disabled", "err", err)
			fc = nil
		}
	}
	prog := newProgress(logger)
	data, hit, err := sheet.Render(ctx, env.catalog, env.surface, env.font, c.cfg.Sheet, fc)
	if err != nil {
		return err
	}
	if err := c.writeOutput(output, data); err != nil {
		return err
	}
	prog.done("sheet rendered", "images", len(entries), "cached", hit)
	printFile(c.out, filepath.Clean(output))
	return nil
}
