package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/casefile/engine/state"
	"github.com/nathoo/casefile/types"
	lua "github.com/yuin/gopher-lua"
)

// collector accumulates definitions while content files execute.
type collector struct {
	games []rawGame
	cases []rawCase
	file  string // file currently being read
}

// Load reads all .lua, .yaml and .yml files from dir, compiles them into
// case definitions, validates references, and returns the immutable Defs.
// The Lua VM is discarded after loading.
func Load(dir string, logger *slog.Logger) (*state.Defs, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// Discover content files.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".lua", ".yaml", ".yml":
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .lua or .yaml files found in %s", dir)
	}

	// Sort: game.lua first, rest alphabetical.
	files = sortedFiles(files)

	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	// Open safe libs only.
	openSafeLibs(L)

	// Sandbox: remove dangerous globals.
	sandbox(L)

	// Register API.
	coll := &collector{}
	registerAPI(L, coll)

	// Execute each file.
	for _, f := range files {
		path := filepath.Join(dir, f)
		coll.file = f
		if strings.HasSuffix(strings.ToLower(f), ".lua") {
			err = L.DoFile(path)
		} else {
			err = readYAML(path, f, coll)
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
	}
	logger.Debug("content files read", "dir", dir, "files", len(files), "cases", len(coll.cases))

	// Compile.
	game := compileGame(coll.games, logger)
	cases := make([]types.CaseDef, 0, len(coll.cases))
	for _, rc := range coll.cases {
		def, err := compileCase(rc)
		if err != nil {
			return nil, fmt.Errorf("compiling case %q in %s: %w", rc.ID, rc.source, err)
		}
		cases = append(cases, def)
	}

	// Validate.
	if err := validate(game, cases, logger); err != nil {
		return nil, err
	}

	return state.NewDefs(game, cases, logger), nil
}

// compileGame takes the first Game definition; later ones are ignored.
func compileGame(games []rawGame, logger *slog.Logger) types.GameDef {
	if len(games) == 0 {
		return types.GameDef{}
	}
	for _, g := range games[1:] {
		logger.Warn("ignoring extra game definition", "file", g.source, "kept", games[0].source)
	}
	g := games[0]
	return types.GameDef{
		Title:   g.title,
		Author:  g.author,
		Version: g.version,
		Intro:   g.intro,
	}
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	// Table library (table.insert, table.sort, etc.)
	lua.OpenTable(L)
	// String library (string.format, string.sub, etc.)
	lua.OpenString(L)
	// Math library (math.floor, math.max, etc.)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Remove math.random and math.randomseed; content must be deterministic.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("random", lua.LNil)
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}

// IsValidation reports whether err came from content validation.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
