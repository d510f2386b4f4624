package main

import (
	"encoding/json"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"tablesearch/config"
	"tablesearch/datatable"
	"tablesearch/datatable/sqladapter"
	"tablesearch/errors"
	"tablesearch/logging"
	"tablesearch/storage/database/basic"
	"tablesearch/storage/database/dialect"
)

type rootOptions struct {
	configPath string
	envPrefix  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "tablesearch",
		Short:         "Compile and run data-table searches against SQL tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&opts.envPrefix, "env-prefix", config.DefaultEnvPrefix, "environment variable prefix")

	root.AddCommand(newCompileCmd(opts), newQueryCmd(opts))
	return root
}

// compileOutput compile 子命令的输出
type compileOutput struct {
	Where    string                `json:"where"`
	Args     []any                 `json:"args"`
	Rejected []datatable.Rejection `json:"rejected,omitempty"`
}

func newCompileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <table> [query-string]",
		Short: "Print the WHERE clause and bound arguments for a DataTables request",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := prepare(opts, args)
			if err != nil {
				return err
			}

			d := dialect.New(env.cfg.Database.Driver)
			compiler := datatable.NewCompiler(datatable.WithDialect(d), datatable.WithLogger(env.logger))
			crit := compiler.Compile(cmd.Context(), env.state)

			where, bound := crit.Where()
			return writeJSON(cmd.OutOrStdout(), compileOutput{
				Where:    d.Rebind(where),
				Args:     bound,
				Rejected: crit.Rejected,
			})
		},
	}
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <table> [query-string]",
		Short: "Run a DataTables request against the configured database and print the response",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := prepare(opts, args)
			if err != nil {
				return err
			}

			db, err := basic.New(env.cfg.Database)
			if err != nil {
				return errors.WrapError(err, errors.ErrCodeDatabase, "打开数据库失败")
			}
			defer db.Close()

			rs, err := sqladapter.New(db, sqladapter.WithLogger(env.logger)).Fetch(cmd.Context(), env.state)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rs)
		},
	}
}

type commandEnv struct {
	cfg    *config.Config
	logger logging.Logger
	state  *datatable.State
}

func prepare(opts *rootOptions, args []string) (*commandEnv, error) {
	cfg, err := config.Load(opts.configPath, opts.envPrefix)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return nil, err
	}
	logging.SetLogger(logger)

	table, err := cfg.Table(args[0])
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	if len(args) > 1 {
		if values, err = url.ParseQuery(args[1]); err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeInvalidInput, "查询字符串无效")
		}
	}
	state, err := datatable.ParseRequest(table, values)
	if err != nil {
		return nil, err
	}
	return &commandEnv{cfg: cfg, logger: logger, state: state}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
