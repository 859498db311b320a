package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriserin/md2docx/internal/config"
	"github.com/chriserin/md2docx/internal/db"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + config.FileName + " and image cache in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	def := config.Default()

	// config file
	if _, err := os.Stat(config.FileName); err == nil {
		fmt.Fprintf(w, "%s already exists\n", config.FileName)
	} else {
		if err := def.Write(config.FileName); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(w, "%s created\n", config.FileName)
	}

	// image cache
	cachePath := filepath.ToSlash(def.Image.CachePath)
	_, err := os.Stat(def.Image.CachePath)
	cacheExists := err == nil
	sqlDB, err := db.Open(def.Image.CachePath)
	if err != nil {
		return fmt.Errorf("opening image cache: %w", err)
	}
	sqlDB.Close()
	if cacheExists {
		fmt.Fprintf(w, "%s already exists\n", cachePath)
	} else {
		fmt.Fprintf(w, "%s created\n", cachePath)
	}

	// gitignore
	msgs, err := ensureGitignore(filepath.ToSlash(filepath.Dir(def.Image.CachePath)) + "/")
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureGitignore(entry string) ([]string, error) {
	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
