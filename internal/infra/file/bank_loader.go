package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"geoquiz-service/internal/domain"
)

// BankLoader reads banks from <dir>/<id>.yaml.
type BankLoader struct {
	dir string
}

func NewBankLoader(dir string) *BankLoader {
	return &BankLoader{dir: dir}
}

func (l *BankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bankID == "" || strings.ContainsAny(bankID, `/\`) || strings.HasPrefix(bankID, ".") {
		return domain.Bank{}, fmt.Errorf("bank id %q: %w", bankID, domain.ErrBankNotFound)
	}
	bank, err := ReadBank(filepath.Join(l.dir, bankID+".yaml"))
	if err != nil {
		return domain.Bank{}, err
	}
	bank.ID = bankID
	return bank, nil
}

// List returns the ids of all banks in the directory, sorted.
func (l *BankLoader) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(l.dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.TrimSuffix(filepath.Base(m), ".yaml"))
	}
	sort.Strings(ids)
	return ids, nil
}

// ReadBank parses a single bank file. The id defaults to the file name.
func ReadBank(path string) (domain.Bank, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Bank{}, fmt.Errorf("%s: %w", path, domain.ErrBankNotFound)
	}
	if err != nil {
		return domain.Bank{}, err
	}
	var bank domain.Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return domain.Bank{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if bank.ID == "" {
		bank.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return bank, nil
}
