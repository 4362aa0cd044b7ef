// Command isobuild builds, lists, and extracts ISO 9660 images from the
// command line. It replaces the separate isocreate/isobuilder/isoview/
// isoextract stub binaries with one tool selected by mode flag.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bgrewell/isoimage"
	"github.com/bgrewell/usage"
	"github.com/theckman/yacspin"
	"golang.org/x/term"
)

func main() {
	u := usage.NewUsage(
		usage.WithApplicationName("isobuild"),
		usage.WithApplicationDescription("isobuild creates, lists, and extracts ISO 9660 CD-ROM filesystem images."),
	)

	help := u.AddBooleanOption("h", "help", false, "Show this help message", "", nil)
	build := u.AddBooleanOption("b", "build", false, "Build an image from a source directory", "", nil)
	list := u.AddBooleanOption("l", "list", false, "List the entries in an existing image", "", nil)
	extract := u.AddBooleanOption("x", "extract", false, "Extract an existing image's contents", "", nil)
	output := u.AddStringOption("o", "output", "", "Output path: the image file for -b, the destination directory for -x", "", nil)
	volumeID := u.AddStringOption("", "volume-id", "ISOIMAGE", "Volume identifier to record when building", "", nil)
	path := u.AddArgument(1, "path", "Source directory (-b) or existing image path (-l, -x)", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}
	if *help {
		u.PrintUsage()
		os.Exit(0)
	}
	if path == nil || *path == "" {
		u.PrintError(fmt.Errorf("a source directory or image path must be provided"))
		os.Exit(1)
	}

	modes := 0
	for _, m := range []bool{*build, *list, *extract} {
		if m {
			modes++
		}
	}
	if modes != 1 {
		u.PrintError(fmt.Errorf("exactly one of -build, -list, or -extract must be given"))
		os.Exit(1)
	}

	var err error
	switch {
	case *build:
		err = runBuild(*path, *output, *volumeID)
	case *list:
		err = runList(*path)
	case *extract:
		err = runExtract(*path, *output)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "isobuild: %v\n", err)
		os.Exit(1)
	}
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func newSpinner(suffix string) (*yacspin.Spinner, error) {
	cfg := yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[9],
		Suffix:          " " + suffix,
		SuffixAutoColon: true,
		ColorAll:        true,
		Colors:          []string{"fgYellow"},
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
	}
	return yacspin.New(cfg)
}

func runBuild(sourceDir, output, volumeID string) error {
	if output == "" {
		output = "image.iso"
	}

	info, err := os.Stat(sourceDir)
	if err != nil {
		return fmt.Errorf("reading source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", sourceDir)
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output image: %w", err)
	}
	defer out.Close()

	var spin *yacspin.Spinner
	if isInteractive() {
		spin, err = newSpinner("writing image")
		if err == nil {
			_ = spin.Start()
		}
	}

	w := isoimage.NewWriter(out,
		isoimage.WithVolumeID(strings.ToUpper(volumeID)),
		isoimage.WithCreationTime(time.Now()),
		isoimage.WithProgress(func(done, total int) {
			if spin != nil {
				spin.Message(fmt.Sprintf("sector %d/%d", done, total))
			}
		}),
	)

	err = filepath.WalkDir(sourceDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return w.AppendFile("/"+filepath.ToSlash(rel), content, info.ModTime())
	})
	if err != nil {
		if spin != nil {
			_ = spin.StopFail()
		}
		return fmt.Errorf("staging files: %w", err)
	}

	if err := w.Close(); err != nil {
		if spin != nil {
			_ = spin.StopFail()
		}
		return fmt.Errorf("writing image: %w", err)
	}
	if spin != nil {
		spin.StopMessage("image written")
		_ = spin.Stop()
	}

	fmt.Printf("wrote %s\n", output)
	return nil
}

func runList(imagePath string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	r, err := isoimage.Open(f)
	if err != nil {
		return fmt.Errorf("parsing image: %w", err)
	}

	h := r.Header()
	fmt.Printf("Volume: %s\n", h.VolumeIdentifier())
	fmt.Printf("Created: %s\n", h.VolumeCreationDateTime())

	for _, e := range r.Layout() {
		kind := "file"
		if e.IsDirectory {
			kind = "dir "
		}
		fmt.Printf("%s  lba=%-8d len=%-10d %s\n", kind, e.LBA, e.Length, e.Path)
	}
	return nil
}

func runExtract(imagePath, destDir string) error {
	if destDir == "" {
		destDir = "./extracted"
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	r, err := isoimage.Open(f)
	if err != nil {
		return fmt.Errorf("parsing image: %w", err)
	}

	var spin *yacspin.Spinner
	if isInteractive() {
		spin, err = newSpinner("extracting")
		if err == nil {
			_ = spin.Start()
		}
	}

	if err := r.ExtractAll(destDir); err != nil {
		if spin != nil {
			_ = spin.StopFail()
		}
		return fmt.Errorf("extracting image: %w", err)
	}
	if spin != nil {
		spin.StopMessage("extraction complete")
		_ = spin.Stop()
	}

	fmt.Printf("extracted to %s\n", destDir)
	return nil
}
