package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/wt/internal/config"
	"github.com/idilsaglam/wt/internal/model"
	"github.com/idilsaglam/wt/internal/store"
	"github.com/idilsaglam/wt/internal/todo"
	"github.com/idilsaglam/wt/internal/tui"
	"github.com/idilsaglam/wt/internal/ui"
)

const writeTimeout = 10 * time.Second

func categoryFlag(travel bool) model.Category {
	if travel {
		return model.Travel
	}
	return model.Work
}

// waitSaved blocks until c is written.
func waitSaved(ctx context.Context, c *todo.Commit) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := c.Wait(ctx); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// -------------- subcommand impls ----------------

func runInteractive(cmd *cobra.Command, opt *Options) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, opt, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	tuiOpts := tui.Options{
		ConfirmDelete: s.cfg.UI.ConfirmDelete,
		Logger:        s.log,
	}
	if w, ok := s.kv.(store.Watcher); ok {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		changes, err := w.Watch(watchCtx, todo.StorageKey)
		if err != nil {
			s.log.Warn("storage watch unavailable", zap.Error(err))
		} else {
			tuiOpts.Changes = changes
		}
	}

	if err := tui.Run(ctx, s.todos, s.cats, tuiOpts); err != nil {
		if errors.Is(err, todo.ErrPersistence) {
			ui.Warn(cmd.ErrOrStderr(), "some changes may not have been saved: "+err.Error())
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func newAddCmd(opt *Options) *cobra.Command {
	var travel bool
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add an item (text can be multiple words)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("usage: wt add [--travel] <text...>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opt, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			key, commit := s.todos.Add(strings.Join(args, " "), categoryFlag(travel))
			if key == "" {
				return usagef("add: empty text")
			}
			if err := waitSaved(cmd.Context(), commit); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added to %s", categoryFlag(travel).Label()))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&travel, "travel", "t", false, "add to Travel instead of Work")
	return cmd
}

func newListCmd(opt *Options) *cobra.Command {
	var travel, all bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the items of a category",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opt, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			if travel {
				s.cats.SwitchToTravel()
			}
			ui.Panel(cmd.OutOrStdout(), listLines(s.todos, s.cats.Get(), all))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&travel, "travel", "t", false, "list Travel instead of Work")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list both categories")
	return cmd
}

func newRemoveCmd(opt *Options, stdin io.Reader) *cobra.Command {
	var travel, yes bool
	cmd := &cobra.Command{
		Use:   "rm <index|key>",
		Short: "Remove an item by 1-based index (as shown by ls) or key",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usagef("usage: wt rm [--travel] [--yes] <index|key>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opt, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			entry, err := resolveEntry(s.todos, categoryFlag(travel), args[0])
			if err != nil {
				return err
			}
			if !yes && s.cfg.UI.ConfirmDelete && !confirm(stdin, cmd.OutOrStdout(), entry.Text) {
				ui.Muted(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			if err := waitSaved(cmd.Context(), s.todos.Delete(entry.Key)); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&travel, "travel", "t", false, "index refers to the Travel list")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newConfigCmd(opt *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("usage: wt config init [--force]")
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the config file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opt)
			if err != nil {
				return err
			}
			path := opt.ConfigPath
			if path == "" {
				path = config.DefaultPath()
			}
			path = config.ExpandHome(path)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "wrote "+path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

// resolveEntry finds an item by exact key, then by 1-based index in cat.
func resolveEntry(s *todo.Store, cat model.Category, arg string) (model.Entry, error) {
	if it, ok := s.Get(arg); ok {
		return model.Entry{Key: arg, Item: it}, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return model.Entry{}, usagef("rm: no item with key %q", arg)
	}
	entries := s.Entries(cat)
	if n < 1 || n > len(entries) {
		return model.Entry{}, usagef("index out of range: have %d %s items, got %d (hint: run `wt ls` to see valid indexes)",
			len(entries), cat, n)
	}
	return entries[n-1], nil
}

func confirm(in io.Reader, out io.Writer, text string) bool {
	fmt.Fprintf(out, "Delete todo %q? Are you sure? [y/N] ", ui.Truncate(text, 60))
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// -------------- rendering helpers --------------

func listLines(s *todo.Store, active model.Category, all bool) []string {
	t := ui.Current()
	snap := s.Snapshot()
	work, travel := snap.Count(model.Work), snap.Count(model.Travel)

	header := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		ui.Tabs(active),
		t.Accent.Render(model.Work.Label()), work,
		t.Accent.Render(model.Travel.Label()), travel,
		t.Muted.Render("Total"), len(snap),
	)
	lines := []string{header}

	if all {
		for i, c := range model.Categories {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, t.Title.Render(c.Label()))
			lines = append(lines, entryLines(s.Entries(c))...)
		}
	} else {
		lines = append(lines, t.Muted.Render(ui.ShareBar(snap.Count(active), len(snap), 28)))
		lines = append(lines, "")
		lines = append(lines, entryLines(s.Entries(active))...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render(`Tip: add with `+"`"+`wt add "Buy milk"`+"`"+`, remove with `+"`"+`wt rm <index>`+"`"))
	return lines
}

func entryLines(entries []model.Entry) []string {
	t := ui.Current()
	if len(entries) == 0 {
		return []string{t.Muted.Render("(none)")}
	}
	out := make([]string, 0, len(entries))
	for i, e := range entries {
		out = append(out, fmt.Sprintf("%s %s %s  %s",
			t.Muted.Render(fmt.Sprintf("%2d.", i+1)),
			t.Accent.Render(t.Bullet),
			ui.Truncate(e.Text, 80),
			t.Muted.Render(e.Key),
		))
	}
	return out
}
