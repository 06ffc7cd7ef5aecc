package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"finance-app-go/pkg/logger"
	"github.com/joho/godotenv"
)

const dotenvFilename = ".env"

// loadDotEnv applies DOTENV_PATH, or the nearest .env above the working directory. Variables
// already present in the environment win. A missing file is not an error.
func loadDotEnv(log logger.Logger) error {
	path := os.Getenv("DOTENV_PATH")
	if path == "" {
		found, ok := findDotEnv(dotenvFilename)
		if !ok {
			log.Debug("dotenv: no .env file found")
			return nil
		}
		path = found
	}

	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("dotenv: file missing", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	loaded, skipped := 0, 0
	for key, value := range values {
		if _, exists := os.LookupEnv(key); exists {
			skipped++
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
		loaded++
	}

	log.Info("dotenv: loaded variables", "count", loaded, "skipped", skipped, "path", path)
	return nil
}

func findDotEnv(filename string) (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
