package services

type ScanRequest struct {
	RootPath string
	// Progress, when set, receives best-effort updates. Sends never block.
	Progress chan<- ScanProgress
}
