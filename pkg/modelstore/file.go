package modelstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/travigo/trainpredict/pkg/models"
)

// FileStore keeps one <name>.json file per model in Directory
type FileStore struct {
	Directory string
}

func NewFileStore(directory string) *FileStore {
	return &FileStore{Directory: directory}
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.Directory, name+".json")
}

func (f *FileStore) Save(ctx context.Context, modelSet *models.ModelSet) error {
	documents, err := encodeModels(modelSet)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(f.Directory, 0o755); err != nil {
		return err
	}

	for _, name := range modelNames {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := writeAtomic(f.path(name), documents[name]); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	log.Info().Str("directory", f.Directory).Msg("Saved models")

	return nil
}

func (f *FileStore) Load(ctx context.Context) (*models.ModelSet, error) {
	documents := map[string][]byte{}

	for _, name := range modelNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(f.path(name))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelMissing, f.path(name))
		} else if err != nil {
			return nil, err
		}

		documents[name] = data
	}

	return decodeModels(documents)
}

// writeAtomic writes to a temporary file alongside path and renames it into place
func writeAtomic(path string, data []byte) error {
	temp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return err
	}

	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}

	if err := temp.Close(); err != nil {
		return err
	}

	return os.Rename(temp.Name(), path)
}
