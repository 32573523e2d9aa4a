package ignore

// DefaultPatterns are always evaluated after the project's own ignore files.
var DefaultPatterns = []string{
	".git/", "node_modules/", "vendor/", "bower_components/", "storage/",
	"build/", "dist/", "out/", "target/", ".svn/", ".hg/", ".bzr/", ".idea/",
	".vscode/", ".project/", ".settings/", "__pycache__/", ".pytest_cache/",
	".mypy_cache/", ".ruff_cache/", "coverage/", "logs/", "tmp/", "temp/",
	"*.lockb", "*.log", "*.tmp", "*.bak", "*.swp", "*.DS_Store",
}
