package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// StatusSuccess is reported in successful recover results
const StatusSuccess = "success"

// ErrDestinationExists is returned when the recovered file would overwrite another file
var ErrDestinationExists = errors.New("destination file already exists")

// ValidationError reports a request field that failed a precondition
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MoveError wraps a failed relocation
type MoveError struct {
	Source      string
	Destination string
	Err         error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("failed to move %s to %s: %v", e.Source, e.Destination, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// Recoverer relocates files into a recovery directory, or only reports them
// when relocation is delegated to the client
type Recoverer struct {
	relocate    bool
	defaultPath string
	logger      *zap.Logger
}

// NewRecoverer creates a new recoverer. With relocate false, Recover never
// touches the filesystem beyond checking that the source exists.
func NewRecoverer(relocate bool, defaultPath string, logger *zap.Logger) *Recoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recoverer{
		relocate:    relocate,
		defaultPath: defaultPath,
		logger:      logger,
	}
}

// Relocates reports whether the server moves files itself
func (r *Recoverer) Relocates() bool {
	return r.relocate
}

// DefaultPath returns the destination used when a request names none
func (r *Recoverer) DefaultPath() string {
	return r.defaultPath
}

// Recover validates req and either moves the file or echoes its path back
func (r *Recoverer) Recover(req RecoverRequest) (*RecoverResult, error) {
	if req.FilePath == "" || !exists(req.FilePath) {
		return nil, &ValidationError{
			Field:   "file_path",
			Message: fmt.Sprintf("File '%s' does not exist.", req.FilePath),
		}
	}

	if !r.relocate {
		r.logger.Info("Reporting file for client-side recovery", zap.String("file_path", req.FilePath))
		return &RecoverResult{Status: StatusSuccess, FilePath: req.FilePath}, nil
	}

	recoveryPath := req.RecoveryPath
	if recoveryPath == "" {
		recoveryPath = r.defaultPath
	}

	if info, err := os.Stat(recoveryPath); err != nil || !info.IsDir() {
		return nil, &ValidationError{
			Field:   "recovery_path",
			Message: fmt.Sprintf("Recovery path '%s' does not exist.", recoveryPath),
		}
	}

	dest := filepath.Join(recoveryPath, filepath.Base(req.FilePath))
	if err := move(req.FilePath, dest); err != nil {
		r.logger.Error("Error recovering file",
			zap.String("file_path", req.FilePath),
			zap.String("destination", dest),
			zap.Error(err))
		return nil, &MoveError{Source: req.FilePath, Destination: dest, Err: err}
	}

	r.logger.Info("Recovered file", zap.String("file_path", req.FilePath), zap.String("destination", dest))
	return &RecoverResult{Status: StatusSuccess, RecoveredFile: dest}, nil
}

// move renames src to dest, refusing to replace an existing file
func move(src, dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		return ErrDestinationExists
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Rename(src, dest)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
