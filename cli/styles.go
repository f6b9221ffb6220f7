package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (c *CLI) stylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "列出可用样式",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			styles, err := loadStyles(c.cfg)
			if err != nil {
				return err
			}
			var rows [][]string
			for _, id := range styles.IDs() {
				st, err := styles.Resolve(id)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					strconv.Itoa(id),
					st.Edge.String(),
					strconv.FormatFloat(st.Rotate, 'g', -1, 64),
					strconv.FormatBool(st.Curve),
					st.Align.String(),
					st.Orientation.String(),
					fmt.Sprintf("%g", st.Share),
				})
			}
			printTable(c.out, []string{"id", "edge", "rotate", "curve", "align", "orientation", "share"}, rows)
			return nil
		},
	}
}
