//go:build ignore

// build.go - Sales Pulse build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, web, report, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	version = "0.1.0"
	module  = "salespulse"
)

var (
	rootDir string
	distDir string

	// key = directory under cmd/, value = output name without extension
	executables = map[string]string{
		"web":    "salespulse",
		"report": "salespulse-report",
	}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	cwd, err := os.Getwd()
	if err != nil {
		printError(fmt.Sprintf("Failed to get current directory: %v", err))
		os.Exit(1)
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); err != nil {
		printError("go.mod not found; run from the repository root")
		os.Exit(1)
	}

	printHeader()
	startTime := time.Now()

	switch *target {
	case "all":
		prepareDirectories()
		for name := range executables {
			buildExecutable(name, runtime.GOOS, runtime.GOARCH, *verbose)
		}
		copyConfigFiles(*verbose)
	case "web", "report":
		prepareDirectories()
		buildExecutable(*target, runtime.GOOS, runtime.GOARCH, *verbose)
	case "test":
		runTests(*verbose)
	case "clean":
		clean()
	case "release":
		buildRelease(*verbose)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "        Sales Pulse - Build System         " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}

func ldflags() string {
	pkg := module + "/internal/app"
	return fmt.Sprintf("-s -w -X %s.Version=%s -X %s.BuildTime=%s",
		pkg, version, pkg, time.Now().UTC().Format(time.RFC3339))
}

// buildExecutable builds cmd/<name> for goos/goarch into dist (or a
// platform subdirectory of dist when cross compiling).
func buildExecutable(name, goos, goarch string, verbose bool) {
	exeName, ok := executables[name]
	if !ok {
		printError(fmt.Sprintf("Unknown executable: %s", name))
		os.Exit(1)
	}
	if goos == "windows" {
		exeName += ".exe"
	}

	outDir := distDir
	if goos != runtime.GOOS || goarch != runtime.GOARCH {
		outDir = filepath.Join(distDir, goos+"_"+goarch)
	}
	outputPath := filepath.Join(outDir, exeName)

	printInfo(fmt.Sprintf("Building %s (%s/%s)...", name, goos, goarch))

	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "-trimpath", "-ldflags", ldflags(), "-o", outputPath, "./cmd/"+name)

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Env = append(os.Environ(), "GOOS="+goos, "GOARCH="+goarch, "CGO_ENABLED=0")
	cmd.Stderr = os.Stderr
	if verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", outputPath, sizeMB))
	}
}

func buildRelease(verbose bool) {
	printInfo("Building release binaries...")
	prepareDirectories()

	platforms := [][2]string{
		{"linux", "amd64"},
		{"linux", "arm64"},
		{"darwin", "arm64"},
		{"windows", "amd64"},
	}
	for _, p := range platforms {
		for name := range executables {
			buildExecutable(name, p[0], p[1], verbose)
		}
	}
	copyConfigFiles(verbose)
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}

	printSuccess("All tests passed")
}

func prepareDirectories() {
	for _, dir := range []string{distDir, filepath.Join(distDir, "data"), filepath.Join(distDir, "logs")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			printError(fmt.Sprintf("Failed to create %s: %v", dir, err))
			os.Exit(1)
		}
	}
}

// copyConfigFiles copies config.yaml next to the binaries when present.
func copyConfigFiles(verbose bool) {
	src := filepath.Join(rootDir, "configs", "config.yaml")
	if _, err := os.Stat(src); err != nil {
		printWarning("No configs/config.yaml found, binaries will use defaults and SALESPULSE_* variables")
		return
	}
	if err := copyFile(src, filepath.Join(distDir, "config.yaml")); err != nil {
		printError(fmt.Sprintf("Failed to copy config: %v", err))
		return
	}
	if verbose {
		printInfo("Copied config.yaml")
	}
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func clean() {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil && !os.IsNotExist(err) {
		printError(fmt.Sprintf("Failed to clean dist directory: %v", err))
		return
	}
	printSuccess("Build artifacts cleaned")
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all      Build web and report for this platform (default)")
	fmt.Println("  web      Build the dashboard server")
	fmt.Println("  report   Build the report command")
	fmt.Println("  test     Run go test -race ./...")
	fmt.Println("  clean    Remove dist/")
	fmt.Println("  release  Cross-compile for linux, darwin and windows")
}
