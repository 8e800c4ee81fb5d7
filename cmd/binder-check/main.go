package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/eykd/prosemark-sub000/application/queries"
	"github.com/eykd/prosemark-sub000/infrastructure/config"
	"github.com/eykd/prosemark-sub000/infrastructure/di"
	"github.com/eykd/prosemark-sub000/infrastructure/persistence/filesystem"
	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(pkgerrors.ExitInvalid)
	}

	container, cleanup, err := di.InitializeContainer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize container: %v\n", err)
		os.Exit(pkgerrors.ExitInternal)
	}

	handler := pkgerrors.NewErrorHandler(container.Logger, cfg.IsDevelopment())
	code := handler.Handle(run(ctx, container, os.Stdout))

	cleanup()
	os.Exit(code)
}

// run checks the binder once, then keeps checking on every change while
// watching is enabled
func run(ctx context.Context, container *di.Container, out io.Writer) error {
	if err := check(ctx, container, out); err != nil {
		return err
	}
	if !container.Config.Watch {
		return nil
	}

	watcher, err := filesystem.NewWatcher(container.Repository.Path(), container.Config.WatchDebounce, container.Logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	watcher.OnChange(func() {
		if err := check(ctx, container, out); err != nil {
			container.Logger.Error("Binder check failed", zap.Error(err))
		}
	})
	watcher.Start()

	<-ctx.Done()
	return nil
}

// check reports the binder structure and rewrites the file when asked to
func check(ctx context.Context, container *di.Container, out io.Writer) error {
	if container.Config.Rewrite {
		snapshot, err := container.Repository.Load(ctx)
		if err != nil {
			return err
		}
		if err := container.Repository.Save(ctx, snapshot.Binder, snapshot.Document); err != nil {
			return err
		}
	}

	result, err := container.QueryBus.Ask(ctx, queries.GetBinderStructureQuery{})
	if err != nil {
		return err
	}
	structure := result.(*queries.BinderStructure)

	report(out, structure)
	container.Logger.Info("Binder checked",
		zap.String("path", container.Repository.Path()),
		zap.Int("items", structure.TotalItems),
		zap.Int("placeholders", structure.Placeholders),
		zap.Int("unparsedLines", len(structure.UnparsedLines)),
	)
	return nil
}

// report prints the binder tree followed by the lines that are not items
func report(out io.Writer, structure *queries.BinderStructure) {
	stack := make([]*queries.StructureNode, 0, len(structure.Roots))
	for i := len(structure.Roots) - 1; i >= 0; i-- {
		stack = append(stack, structure.Roots[i])
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		label := node.ID
		if node.Placeholder {
			label = "placeholder"
		}
		fmt.Fprintf(out, "%s%s [%s]\n", strings.Repeat("  ", node.Depth), node.Title, label)

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}

	fmt.Fprintf(out, "\n%d items, %d placeholders\n", structure.TotalItems, structure.Placeholders)
	for _, line := range structure.UnparsedLines {
		fmt.Fprintf(out, "line %d not an item: %s\n", line.Line, line.Text)
	}
}
