package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/avon-lang/avon/lang"
)

// Eval evaluates a program and prints the resulting value.
type Eval struct {
	Source string   `arg:"" default:"-" help:"Source file or '-' for stdin"                      name:"source"`
	Args   []string `arg:"" optional:"" help:"Arguments applied to the program's parameters"     name:"args"`
	Output string   `default:"text"     help:"Result encoding"                                   enum:"text,yaml,json" short:"o"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	name, src, err := readSource(e.Source)
	if err != nil {
		return err
	}

	result, err := evalProgram(src, e.Args)
	if err != nil {
		if lerr, ok := err.(*lang.Error); ok {
			return lerr.With(
				slog.String("command", "eval"),
				slog.String("source", name),
			)
		}

		return err
	}

	switch e.Output {
	case "yaml":
		data, err := yaml.Marshal(lang.ToGo(result))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		fmt.Print(string(data))

	case "json":
		encoded, err := lang.Apply(lang.Builtins()["format_json"], result)
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		fmt.Println(encoded.Display())

	default:
		fmt.Println(result.Display())
	}

	return nil
}

// evalProgram evaluates source and applies the given command-line arguments
// to the result. Arguments bind as strings, one per remaining parameter;
// parameters with declared defaults that receive no argument take their
// default value.
func evalProgram(src string, args []string) (lang.Value, error) {
	result, err := lang.Run(src)
	if err != nil {
		return nil, err
	}

	for _, arg := range args {
		result, err = lang.Apply(result, lang.String{Value: arg})
		if err != nil {
			return nil, err
		}
	}

	// Let declared defaults stand in for missing trailing arguments.
	for {
		closure, ok := result.(*lang.Closure)
		if !ok || closure.Default == nil {
			break
		}

		result, err = lang.Apply(result, lang.None{})
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}
