package files

// FileRecord describes a matching file found during a scan
type FileRecord struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// RecoverRequest is the body accepted by the recover endpoint
type RecoverRequest struct {
	FilePath     string `json:"file_path"`
	RecoveryPath string `json:"recovery_path,omitempty"`
}

// RecoverResult describes a completed recover call.
// RecoveredFile is set when the file was moved, FilePath when it was only reported.
type RecoverResult struct {
	Status        string `json:"status"`
	RecoveredFile string `json:"recovered_file,omitempty"`
	FilePath      string `json:"file_path,omitempty"`
}
