package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mojes/internal/driver"
	"mojes/internal/ui"
)

type buildOutcome struct {
	result *driver.Result
	err    error
}

func runBuildWithUI(ctx context.Context, title string, s *session) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		sc := *s
		sc.opts.Sink = driver.ChannelSink{Ch: events}
		res, err := build(ctx, &sc)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
