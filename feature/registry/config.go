package registry

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds configuration for the remote data source and the bulk import.
type Config struct {
	// IndexURL is the Receita Federal file index listing dataset releases.
	IndexURL string `mapstructure:"index_url" default:"https://arquivos.receitafederal.gov.br/dados/cnpj/dados_abertos_cnpj/"`
	// ArchiveName is the fixed archive filename appended to a release prefix.
	ArchiveName string `mapstructure:"archive_name" default:"Simples.zip"`
	// TmpDir is the working directory for the downloaded archive and its
	// extracted contents. Empty means the per-user default (~/.simples/tmp).
	TmpDir string `mapstructure:"tmp_dir" default:""`
	// BatchSize is the number of rows applied per store transaction.
	BatchSize int `mapstructure:"batch_size" default:"100000"`
}

// ResolveTmpDir returns the effective working directory, falling back to the
// per-user default when none is configured.
func (c Config) ResolveTmpDir() (string, error) {
	if c.TmpDir != "" {
		return c.TmpDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".simples", "tmp"), nil
}
