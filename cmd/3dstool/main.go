// 3dstool is a CLI utility for inspecting 3D Studio (.3ds) scene files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/max3ds/internal/assets"
	"github.com/Faultbox/max3ds/internal/config"
	"github.com/Faultbox/max3ds/internal/logger"
	"github.com/Faultbox/max3ds/pkg/formats"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
		fileCfg.JSON = cfg.Logging.JSON
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		err = cmdInfo(cfg, args)
	case "meshes":
		err = cmdMeshes(cfg, args)
	case "materials", "mats":
		err = cmdMaterials(cfg, args)
	case "textures", "maps":
		err = cmdTextures(cfg, args)
	case "nodes", "tree":
		err = cmdNodes(cfg, args)
	case "dump":
		err = cmdDump(cfg, args)
	case "config":
		err = cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`3dstool - 3D Studio scene file utility

Usage:
  3dstool [flags] <command> [arguments]

Commands:
  info <file.3ds>        Show scene summary
  meshes <file.3ds>      List meshes with vertex and face counts
  materials <file.3ds>   List materials and their texture maps
  textures [-dir D] <file.3ds>
                         Locate texture map files and show their sizes
  nodes [-frame N] <file.3ds>
                         Print the node hierarchy with world positions
  dump <file.3ds>        Write the whole decoded scene as YAML
  config [path]          Write the effective configuration

Flags:
  -config <path>         Config file (default ./3dstool.yaml)
  -debug                 Enable debug logging
  -charset <name>        Code page of chunk strings
  -format <text|yaml>    Report format
  -ignore-pivot          Record ignore-pivot on the scene
  -no-keyframes          Skip animation tracks
  -log-file <path>       Also write logs to a rotating file

Examples:
  3dstool info teapot.3ds
  3dstool -format yaml materials teapot.3ds
  3dstool -debug nodes robot.3ds`)
}

// loadScene decodes the file named by the first argument using the import
// settings from cfg.
func loadScene(cfg *config.Config, args []string, usage string) (*formats.Scene, string, error) {
	if len(args) < 1 {
		return nil, "", fmt.Errorf("usage: 3dstool %s", usage)
	}
	path := args[0]

	opts, err := cfg.Import.Options(logger.Named("decoder").With(zap.String("file", path)))
	if err != nil {
		return nil, "", err
	}

	scene, err := formats.DecodeFile(path, opts)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("decoded scene",
		zap.String("file", path),
		zap.Int("meshes", len(scene.Meshes)),
		zap.Int("materials", len(scene.Materials)),
		zap.Int("nodes", scene.Nodes.Len()))
	return scene, path, nil
}

func cmdInfo(cfg *config.Config, args []string) error {
	scene, path, err := loadScene(cfg, args, "info <file.3ds>")
	if err != nil {
		return err
	}
	return emit(os.Stdout, cfg.Output.Format, newInfoReport(path, scene))
}

func cmdMeshes(cfg *config.Config, args []string) error {
	scene, _, err := loadScene(cfg, args, "meshes <file.3ds>")
	if err != nil {
		return err
	}
	return emit(os.Stdout, cfg.Output.Format, newMeshReports(scene))
}

func cmdMaterials(cfg *config.Config, args []string) error {
	scene, _, err := loadScene(cfg, args, "materials <file.3ds>")
	if err != nil {
		return err
	}
	return emit(os.Stdout, cfg.Output.Format, newMaterialReports(scene))
}

// dirList collects repeated -dir flags.
type dirList []string

func (d *dirList) String() string     { return fmt.Sprint(*d) }
func (d *dirList) Set(v string) error { *d = append(*d, v); return nil }

func cmdTextures(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("textures", flag.ExitOnError)
	var dirs dirList
	fs.Var(&dirs, "dir", "Texture search directory (repeatable, later wins)")
	fs.Parse(args)

	scene, path, err := loadScene(cfg, fs.Args(), "textures [-dir D] <file.3ds>")
	if err != nil {
		return err
	}

	mgr := assets.NewManager()
	defer mgr.Close()

	// Lowest priority first: the scene's own directory, then config, then flags.
	search := append([]string{filepath.Dir(path)}, cfg.Import.TextureDirs...)
	search = append(search, dirs...)
	for _, dir := range search {
		if err := mgr.AddDir(dir); err != nil {
			logger.Warn("skipping texture dir", zap.String("dir", dir), zap.Error(err))
		}
	}

	return emit(os.Stdout, cfg.Output.Format, newTextureMapReports(scene, mgr))
}

func cmdNodes(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("nodes", flag.ExitOnError)
	frame := fs.Float64("frame", 0, "Keyframe at which world positions are sampled")
	fs.Parse(args)

	scene, _, err := loadScene(cfg, fs.Args(), "nodes [-frame N] <file.3ds>")
	if err != nil {
		return err
	}
	if cfg.Output.Format == config.FormatYAML {
		return writeYAML(os.Stdout, newNodeReports(scene, float32(*frame)))
	}
	printTree(os.Stdout, scene, float32(*frame))
	return nil
}

func cmdDump(cfg *config.Config, args []string) error {
	scene, path, err := loadScene(cfg, args, "dump <file.3ds>")
	if err != nil {
		return err
	}
	return writeYAML(os.Stdout, newDumpReport(path, scene))
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Config written to %s\n", args[0])
		return nil
	}
	return writeYAML(os.Stdout, cfg)
}
