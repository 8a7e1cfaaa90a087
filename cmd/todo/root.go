package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/todolist/internal/app"
	"github.com/mmynk/todolist/internal/client"
	"github.com/mmynk/todolist/internal/config"
	"github.com/mmynk/todolist/internal/session"
	"github.com/mmynk/todolist/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "To-do list client",
	Long: `Command-line client for the todolist gateway.

Examples:
  todo signup --username alice --email alice@example.com --password 'Passw0rd!' \
    --confirm-password 'Passw0rd!' --name Alice --phone 555-0100 --address '1 Main St' --accept-terms
  todo login alice 'Passw0rd!'
  todo add --item Milk --label home
  todo list
  todo logout`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "gateway URL (default from server.url)")
	rootCmd.PersistentFlags().String("session", "", "session file path (default from session.path or the user config dir)")
	rootCmd.PersistentFlags().String("config", "", "config file (default ./config.yaml)")
}

// env is what every command needs: the controller and where the session lives.
type env struct {
	ctrl     *app.Controller
	location string
	close    func()
}

func setup(cmd *cobra.Command) (*env, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level))

	serverURL, _ := cmd.Flags().GetString("server")
	if serverURL == "" {
		serverURL = cfg.Server.URL
	}
	sessionPath, _ := cmd.Flags().GetString("session")

	store, location, closeStore, err := openSessionStore(cmd.Context(), cfg, sessionPath)
	if err != nil {
		return nil, err
	}

	sessions, err := session.Open(cmd.Context(), store)
	if err != nil {
		closeStore()
		return nil, err
	}

	c := client.New(nil, serverURL)
	return &env{
		ctrl:     app.NewController(c, c, sessions, nil),
		location: location,
		close:    closeStore,
	}, nil
}

// openSessionStore picks the file store unless the redis backend is configured
// and no --session path was given.
func openSessionStore(ctx context.Context, cfg *config.Config, path string) (session.Store, string, func(), error) {
	if path == "" && cfg.Session.Backend == config.SessionRedis {
		rdb, err := session.DialRedis(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, "", nil, err
		}
		location := fmt.Sprintf("redis://%s/%d %s", cfg.Redis.Addr(), cfg.Redis.DB, cfg.Session.RedisKey)
		return session.NewRedisStore(rdb, cfg.Session.RedisKey), location, func() { rdb.Close() }, nil
	}

	if path == "" {
		path = cfg.Session.Path
	}
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to locate config dir: %w", err)
		}
		path = filepath.Join(dir, "todolist", "session.json")
	}
	store := session.NewFileStore(path)
	return store, store.Path(), func() {}, nil
}

// result prints the state and turns a failed action into the command error.
func result(out io.Writer, st app.State, err error) error {
	if err != nil {
		if st.Notice != "" {
			return errors.New(st.Notice)
		}
		return err
	}
	printState(out, st)
	return nil
}

func printState(out io.Writer, st app.State) {
	if st.Notice != "" {
		fmt.Fprintln(out, st.Notice)
	}
	if st.Screen != app.ScreenTodo {
		return
	}
	if len(st.Tasks) == 0 {
		fmt.Fprintln(out, "No tasks")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tITEM\tDESCRIPTION")
	for _, t := range st.Tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Label, t.Item, t.FullDescription)
	}
	w.Flush()
}
