// Command migrate manages the posting schema with the SQL files under migrations/.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/erp/posting/internal/infrastructure/config"
	"github.com/erp/posting/internal/infrastructure/logger"
	"github.com/erp/posting/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

var errUsage = errors.New("usage")

// command is one migrate sub-command. Commands without needsDB never open a connection.
type command struct {
	usage   string
	help    string
	needsDB bool
	run     func(env *cmdEnv, args []string) error
}

type cmdEnv struct {
	dir string
	log *zap.Logger
	m   *migration.Migrator
}

var commands = map[string]command{
	"up": {usage: "up", help: "apply all pending migrations", needsDB: true,
		run: func(e *cmdEnv, _ []string) error { return e.m.Up() }},
	"down": {usage: "down", help: "roll back every migration", needsDB: true,
		run: func(e *cmdEnv, _ []string) error { return e.m.Down() }},
	"step": {usage: "step <n>", help: "apply n migrations, negative n rolls back", needsDB: true,
		run: func(e *cmdEnv, args []string) error {
			n, err := intArg(args)
			if err != nil {
				return err
			}
			return e.m.Steps(n)
		}},
	"goto": {usage: "goto <version>", help: "migrate up or down to version", needsDB: true,
		run: func(e *cmdEnv, args []string) error {
			v, err := intArg(args)
			if err != nil || v < 0 {
				return errUsage
			}
			return e.m.GoTo(uint(v))
		}},
	"force": {usage: "force <version>", help: "set the version without running anything, to clear a dirty schema", needsDB: true,
		run: func(e *cmdEnv, args []string) error {
			v, err := intArg(args)
			if err != nil {
				return err
			}
			return e.m.Force(v)
		}},
	"status": {usage: "status", help: "show version, dirty flag and available migrations", needsDB: true,
		run: status},
	"drop": {usage: "drop -confirm", help: "drop every object in the database", needsDB: true,
		run: func(e *cmdEnv, args []string) error {
			if len(args) == 0 || (args[0] != "-confirm" && args[0] != "--confirm") {
				return fmt.Errorf("drop needs -confirm")
			}
			return e.m.Drop()
		}},
	"create": {usage: "create <name> [description]", help: "write a new up/down file pair",
		run: func(e *cmdEnv, args []string) error {
			if len(args) == 0 {
				return errUsage
			}
			desc := ""
			if len(args) > 1 {
				desc = args[1]
			}
			mf, err := migration.CreateMigration(e.dir, args[0], desc)
			if err != nil {
				return err
			}
			e.log.Info("migration created", zap.String("up", mf.UpPath), zap.String("down", mf.DownPath))
			return nil
		}},
	"list": {usage: "list", help: "list migration files and check that every up has a down",
		run: func(e *cmdEnv, _ []string) error {
			files, err := migration.ListMigrations(e.dir)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Println(f)
			}
			return migration.CheckPairs(e.dir)
		}},
}

func main() {
	dir := flag.String("path", "", "migrations directory (default ./migrations)")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", Output: "stdout", TimeFormat: "15:04:05"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	env := &cmdEnv{dir: migrationsDir(*dir), log: log}
	if cmd.needsDB {
		closeDB, err := env.connect()
		if err != nil {
			log.Fatal("cannot open migrator", zap.Error(err))
		}
		defer closeDB()
	}

	if err := cmd.run(env, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "usage: migrate %s\n", cmd.usage)
			os.Exit(2)
		}
		log.Fatal("migrate "+args[0]+" failed", zap.Error(err))
	}
}

func (e *cmdEnv) connect() (func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	m, err := migration.New(db, e.dir, e.log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	e.m = m
	return func() {
		_ = m.Close()
		_ = db.Close()
	}, nil
}

func status(e *cmdEnv, _ []string) error {
	st, err := e.m.Status()
	if err != nil {
		return err
	}
	files, err := migration.ListMigrations(e.dir)
	if err != nil {
		return err
	}
	e.log.Info("schema status",
		zap.Bool("applied", st.Applied),
		zap.Uint("version", st.Version),
		zap.Bool("dirty", st.Dirty),
		zap.Int("available", len(files)),
	)
	if st.Dirty {
		e.log.Warn("schema is dirty: repair the failed migration by hand, then run migrate force <version>")
	}
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errUsage
	}
	return n, nil
}

// migrationsDir resolves the directory from the flag, the working directory or the
// repository layout around the binary, in that order
func migrationsDir(flagValue string) string {
	dir := flagValue
	if dir == "" {
		dir = defaultMigrationsDir
		if _, err := os.Stat(dir); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsDir)
				if _, err := os.Stat(candidate); err == nil {
					dir = candidate
				}
			}
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func usage() {
	fmt.Fprintln(os.Stderr, "migrate [-path dir] [-log-level level] <command> [args]")
	fmt.Fprintln(os.Stderr)
	for _, name := range []string{"up", "down", "step", "goto", "status", "force", "drop", "create", "list"} {
		c := commands[name]
		fmt.Fprintf(os.Stderr, "  %-28s %s\n", c.usage, c.help)
	}
	fmt.Fprintln(os.Stderr, "\nThe database is configured with ERP_DATABASE_* variables or config.toml.")
}
