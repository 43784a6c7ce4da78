// modeltool inspects glTF models without a GPU.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"

	"github.com/Faultbox/learngl/internal/engine/importer"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "tree":
		err = cmdTree(args)
	case "textures", "tex":
		err = cmdTextures(args)
	case "dump":
		err = cmdDump(args)
	case "pack":
		err = cmdPack(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`modeltool - glTF model inspection

Usage:
  modeltool <command> [options]

Commands:
  info <model>                  Show mesh, vertex and material counts
  tree <model>                  Print the node hierarchy
  textures [-check] <model>     List texture references per material
  dump <model>                  Dump the imported scene
  pack <model.gltf> <out.glb>   Write the model as a single binary glTF

Examples:
  modeltool info resources/objects/backpack/backpack.gltf
  modeltool textures -check resources/objects/backpack/backpack.gltf
  modeltool pack rock.gltf rock.glb`)
}

func importArg(name string, args []string) (string, *importer.Scene, error) {
	if len(args) < 1 {
		return "", nil, fmt.Errorf("usage: modeltool %s <model>", name)
	}
	scene, err := importer.GLTF{}.Import(args[0])
	if err != nil {
		return "", nil, err
	}
	return args[0], scene, nil
}

func cmdInfo(args []string) error {
	path, scene, err := importArg("info", args)
	if err != nil {
		return err
	}
	printInfo(os.Stdout, path, scene)
	return nil
}

func cmdTree(args []string) error {
	_, scene, err := importArg("tree", args)
	if err != nil {
		return err
	}
	printTree(os.Stdout, scene)
	return nil
}

func cmdTextures(args []string) error {
	fs := flag.NewFlagSet("textures", flag.ExitOnError)
	check := fs.Bool("check", false, "Read and decode every file texture")
	fs.Parse(args)

	path, scene, err := importArg("textures", fs.Args())
	if err != nil {
		return err
	}
	var reader func(string) ([]byte, error)
	if *check {
		reader = os.ReadFile
	}
	if failed := printTextures(os.Stdout, filepath.Dir(path), scene, reader); failed > 0 {
		return fmt.Errorf("%d textures failed to decode", failed)
	}
	return nil
}

func cmdDump(args []string) error {
	_, scene, err := importArg("dump", args)
	if err != nil {
		return err
	}
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, MaxDepth: 6}
	cfg.Fdump(os.Stdout, summarize(scene))
	return nil
}

func cmdPack(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: modeltool pack <model.gltf> <out.glb>")
	}
	doc, err := packModel(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d meshes, %d images)\n", args[1], len(doc.Meshes), len(doc.Images))
	return nil
}
