package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	emulator "github.com/nagyistge/cloud-functions-emulator"
)

type command struct {
	global *GlobalFlags
}

// emulator loads the configuration (flag path or defaults) and builds the
// facade around it. Each invocation is one-shot, so there is no shared
// client state between commands.
func (c command) emulator() (*emulator.Emulator, error) {
	cfg, err := emulator.LoadConfig(c.global.ConfigPath)
	if err != nil {
		return nil, err
	}
	return emulator.New(cfg)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// printFunctionsTable renders deployed functions in name order.
func printFunctionsTable(fns map[string]emulator.FunctionInfo) {
	if len(fns) == 0 {
		fmt.Println("No functions deployed")
		return
	}
	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTYPE\tPATH")
	for _, name := range names {
		fn := fns[name]
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", fn.Name, fn.Type, fn.Path)
	}
	_ = w.Flush()
}
