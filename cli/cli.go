/*
 * Lakegen (C) 2025-2026 Lakegen Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"

	profile "github.com/bygui86/multi-profile/v2"
	"github.com/cheggaaa/pb"
	"github.com/dustin/go-humanize"
	"github.com/minio/cli"
	"github.com/minio/mc/pkg/probe"
	"github.com/minio/pkg/v3/console"
	"github.com/minio/pkg/v3/trie"
	"github.com/minio/pkg/v3/words"
	"github.com/posener/complete/cmd/install"
	"github.com/russfellows/lakegen/pkg"
)

var (
	globalQuiet   = false // Quiet flag set via command line
	globalJSON    = false // Json flag set via command line
	globalDebug   = false // Debug flag set via command line
	globalNoColor = false // No Color flag set via command line
	// Terminal width
	globalTermWidth int
)

const (
	appName   = "lakegen"
	appNameUC = "LAKEGEN"
)

// Main starts lakegen.
func Main(args []string) {
	if len(args) > 1 {
		switch args[1] {
		case appName, filepath.Base(args[0]):
			mainComplete()
			return
		}
	}

	probe.Init() // Set project's root source path.
	probe.SetAppInfo("Release-Tag", pkg.ReleaseTag)
	probe.SetAppInfo("Commit", pkg.ShortCommitID)

	// Fetch terminal size, if not available, automatically
	// set globalQuiet to true.
	if w, e := pb.GetTerminalWidth(); e != nil {
		globalQuiet = true
	} else {
		globalTermWidth = w
	}

	if err := registerApp(filepath.Base(args[0]), appCmds).Run(args); err != nil {
		os.Exit(1)
	}
}

func init() {
	appCmds = []cli.Command{
		generateCmd,
		icebergCmd,
		inspectCmd,
		versionCmd,
	}
}

var appCmds []cli.Command

func combineFlags(flags ...[]cli.Flag) []cli.Flag {
	var dst []cli.Flag
	for _, fl := range flags {
		dst = append(dst, fl...)
	}
	return dst
}

// Collection of lakegen commands currently supported
var commands = []cli.Command{}

// Collection of lakegen commands currently supported in a trie tree
var commandsTree = trie.NewTrie()

// registerCmd registers a cli command
func registerCmd(cmd cli.Command) {
	commands = append(commands, cmd)
	commandsTree.Insert(cmd.Name)
}

func registerApp(name string, appCmds []cli.Command) *cli.App {
	for _, cmd := range appCmds {
		registerCmd(cmd)
	}

	cli.HelpFlag = cli.BoolFlag{
		Name:  "help, h",
		Usage: "show help",
	}

	app := cli.NewApp()
	app.Name = name
	app.Action = func(ctx *cli.Context) {
		if ctx.Bool("autocompletion") || ctx.GlobalBool("autocompletion") {
			installAutoCompletion()
			return
		}
		cli.ShowAppHelp(ctx)
	}

	app.Before = func(ctx *cli.Context) error {
		var stoppers []func()
		dir := ctx.String("pprofdir")
		if ctx.Bool("cpu") {
			stoppers = append(stoppers, profile.CPUProfile(&profile.Config{Path: dir}).Start().Stop)
		}
		if ctx.Bool("mem") {
			stoppers = append(stoppers, profile.MemProfile(&profile.Config{Path: dir}).Start().Stop)
		}
		if ctx.Bool("block") {
			stoppers = append(stoppers, profile.BlockProfile(&profile.Config{Path: dir}).Start().Stop)
		}
		if ctx.Bool("mutex") {
			stoppers = append(stoppers, profile.MutexProfile(&profile.Config{Path: dir}).Start().Stop)
		}
		if ctx.Bool("threads") {
			stoppers = append(stoppers, profile.ThreadCreationProfile(&profile.Config{Path: dir}).Start().Stop)
		}
		if ctx.Bool("trace") {
			stoppers = append(stoppers, profile.TraceProfile(&profile.Config{Path: dir}).Start().Stop)
		}
		if len(stoppers) == 0 {
			return nil
		}
		x := app.After
		app.After = func(ctx *cli.Context) error {
			var err error
			if x != nil {
				err = x(ctx)
			}
			for _, stop := range stoppers {
				stop()
			}
			return err
		}
		return nil
	}

	app.ExtraInfo = func() map[string]string {
		if globalDebug {
			return getSystemData()
		}
		return make(map[string]string)
	}

	app.HideHelpCommand = true
	app.Usage = "Synthetic lakehouse benchmark dataset generator for S3 compatible systems."
	app.Commands = commands
	app.Author = "Lakegen Authors"
	app.Version = pkg.ReleaseTag
	app.Flags = append(app.Flags, globalFlags...)
	app.CommandNotFound = commandNotFound
	app.EnableBashCompletion = true

	return app
}

func installAutoCompletion() {
	if runtime.GOOS == "windows" {
		console.Infoln("autocompletion feature is not available for this operating system")
		return
	}

	if install.IsInstalled(filepath.Base(os.Args[0])) || install.IsInstalled(appName) {
		console.Infoln("autocompletion is already enabled in your '$SHELLRC'")
		return
	}

	err := install.Install(filepath.Base(os.Args[0]))
	if err != nil {
		fatalIf(probe.NewError(err), "Unable to install auto-completion.")
	} else {
		console.Infoln("enabled autocompletion in '$SHELLRC'. Please restart your shell.")
	}
}

// Get os/arch/platform specific information.
// Returns a map of current os/arch/platform/memstats.
func getSystemData() map[string]string {
	host, e := os.Hostname()
	fatalIf(probe.NewError(e), "Unable to determine the hostname.")

	memstats := &runtime.MemStats{}
	runtime.ReadMemStats(memstats)
	mem := fmt.Sprintf("Used: %s | Allocated: %s | UsedHeap: %s | AllocatedHeap: %s",
		humanize.Bytes(memstats.Alloc),
		humanize.Bytes(memstats.TotalAlloc),
		humanize.Bytes(memstats.HeapAlloc),
		humanize.Bytes(memstats.HeapSys))
	platform := fmt.Sprintf("Host: %s | OS: %s | Arch: %s", host, runtime.GOOS, runtime.GOARCH)
	goruntime := fmt.Sprintf("Version: %s | CPUs: %s", runtime.Version(), strconv.Itoa(runtime.NumCPU()))
	return map[string]string{
		"PLATFORM": platform,
		"RUNTIME":  goruntime,
		"MEM":      mem,
	}
}

// Function invoked when invalid command is passed.
func commandNotFound(_ *cli.Context, command string) {
	msg := fmt.Sprintf("`%s` is not a %s command. See `%s --help`.", command, appName, appName)
	closestCommands := findClosestCommands(command)
	if len(closestCommands) > 0 {
		msg += "\n\nDid you mean one of these?\n"
		if len(closestCommands) == 1 {
			cmd := closestCommands[0]
			msg += fmt.Sprintf("        `%s`", cmd)
		} else {
			for _, cmd := range closestCommands {
				msg += fmt.Sprintf("        `%s`\n", cmd)
			}
		}
	}
	fatalIf(errDummy().Trace(), msg)
}

// findClosestCommands to match a given string with commands trie tree.
func findClosestCommands(command string) []string {
	closestCommands := commandsTree.PrefixMatch(command)
	sort.Strings(closestCommands)
	// Suggest other close commands - allow missed, wrongly added and even transposed characters
	for _, value := range commandsTree.Walk(commandsTree.Root()) {
		if sort.SearchStrings(closestCommands, value) < len(closestCommands) {
			continue
		}
		// 2 is arbitrary and represents the max allowed number of typed errors
		if words.DamerauLevenshteinDistance(command, value) < 2 {
			closestCommands = append(closestCommands, value)
		}
	}
	return closestCommands
}
