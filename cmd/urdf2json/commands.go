package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/volttools/urdfconv/internal/convert"
	"github.com/volttools/urdfconv/internal/kinematics"
	"github.com/volttools/urdfconv/internal/models"
	"github.com/volttools/urdfconv/internal/output"
	"github.com/volttools/urdfconv/internal/parser"
	"github.com/volttools/urdfconv/internal/watch"
)

// stdoutPath as an output path writes to standard output.
const stdoutPath = "-"

func convertCmd() *cobra.Command {
	var (
		outPath string
		format  string
		indent  int
	)

	cmd := &cobra.Command{
		Use:   "convert <input.urdf>",
		Short: "Convert a URDF file",
		Long: `Convert a URDF file. Without --output the result is written next to the
input with the extension of the chosen format (robot.urdf -> robot.json).
Use --output - to write to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			conv, err := convert.New(convert.Options{Encode: output.Options{Indent: indent}})
			if err != nil {
				return err
			}

			in := args[0]
			if outPath == stdoutPath {
				data, err := os.ReadFile(in)
				if err != nil {
					return fmt.Errorf("reading %s: %w", in, err)
				}
				robot, err := conv.Convert(data)
				if err != nil {
					return fmt.Errorf("converting %s: %w", in, err)
				}
				return conv.Encode(cmd.OutOrStdout(), robot, f)
			}

			out, err := conv.ConvertFile(in, outPath, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Converted %s -> %s\n", in, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file path (default: derived from input)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml, msgpack)")
	cmd.Flags().IntVar(&indent, "indent", output.DefaultIndent, "Indentation width; negative for compact JSON")

	return cmd
}

func watchCmd() *cobra.Command {
	var (
		outDir   string
		format   string
		debounce time.Duration
		existing bool
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Convert URDF files in a directory whenever they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			conv, err := convert.New(convert.Options{CacheSize: 32})
			if err != nil {
				return err
			}

			dir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}

			w, err := watch.New(watch.Config{
				Dir:             dir,
				Format:          f,
				OutputDir:       outDir,
				Debounce:        debounce,
				ConvertExisting: existing,
			}, conv)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			done := make(chan error, 1)
			go func() { done <- w.Run(ctx) }()

			out := cmd.OutOrStdout()
			for r := range w.Results() {
				if r.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Failed %s: %v\n", r.Input, r.Err)
					continue
				}
				fmt.Fprintf(out, "Converted %s -> %s\n", r.Input, r.Output)
			}
			return <-done
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for converted files (default: next to input)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml, msgpack)")
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Delay before converting a changed file")
	cmd.Flags().BoolVar(&existing, "existing", false, "Convert files already present at startup")

	return cmd
}

func fkCmd() *cobra.Command {
	var (
		base     string
		joints   []string
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:   "fk <input>",
		Short: "Print link positions for the given joint values",
		Long: `Compute forward kinematics for a URDF file or an already converted JSON
document. Joint values are given as --joint name=value (radians for
revolute joints, meters for prismatic joints); unset joints are zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseJointValues(joints)
			if err != nil {
				return err
			}

			robot, err := loadRobot(args[0])
			if err != nil {
				return err
			}

			if base == "" {
				roots := kinematics.RootLinks(robot)
				if len(roots) == 0 {
					return fmt.Errorf("no root link found; use --base")
				}
				base = roots[0]
			}

			poses := kinematics.ComputeFK(robot, values, base)
			if jsonMode {
				positions := make(map[string]models.Vec3, len(poses))
				for link, t := range poses {
					positions[link] = t.Position()
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(positions)
			}
			return printPoses(cmd, poses)
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base link (default: first root link)")
	cmd.Flags().StringArrayVar(&joints, "joint", nil, "Joint value as name=value (repeatable)")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Print positions as JSON")

	return cmd
}

// loadRobot reads a converted JSON document or parses a URDF file.
func loadRobot(path string) (*models.Robot, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return models.LoadRobotJSONFile(path)
	}
	return parser.ParseURDFFile(path)
}

func parseJointValues(specs []string) (map[string]float64, error) {
	values := make(map[string]float64, len(specs))
	for _, spec := range specs {
		name, raw, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid joint value %q: want name=value", spec)
		}
		v, err := kinematics.ParseJointValue(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid joint value %q: %w", spec, err)
		}
		values[name] = v
	}
	return values, nil
}

func printPoses(cmd *cobra.Command, poses map[string]kinematics.Transform) error {
	links := make([]string, 0, len(poses))
	for link := range poses {
		links = append(links, link)
	}
	sort.Strings(links)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINK\tX\tY\tZ")
	for _, link := range links {
		p := poses[link].Position()
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%.6f\n", link, p[0], p[1], p[2])
	}
	return tw.Flush()
}
