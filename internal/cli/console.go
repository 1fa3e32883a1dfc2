package cli

import (
	"bufio"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/amirbrooks/sid/internal/command"
)

// Console reads one command per line until bye or end of input. Blank lines are
// ignored; every result or error is rendered and the loop continues.
type Console struct {
	In     io.Reader
	Out    io.Writer
	Interp *command.Interpreter
	Render Renderer
	Log    *zap.Logger
}

func (c *Console) Run() error {
	render := c.Render
	if render == nil {
		render = PlainRenderer{}
	}
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	fmt.Fprintln(c.Out, render.Render(command.Greeting))

	sc := bufio.NewScanner(c.In)
	for sc.Scan() {
		res, err := c.Interp.Execute(sc.Text())
		if err != nil {
			if !command.IsUserError(err) {
				log.Error("command failed", zap.Error(err))
			}
			fmt.Fprintln(c.Out, render.Render(err.Error()))
			continue
		}
		if res.Empty {
			continue
		}
		fmt.Fprintln(c.Out, render.Render(res.Message))
		if res.Exit {
			log.Debug("session closed by user")
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	log.Debug("input closed")
	return nil
}
