package migrate_test

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/jsmigrate/internal/execshell"
	"github.com/temirov/jsmigrate/internal/filesystem"
	migrate "github.com/temirov/jsmigrate/internal/migrate"
	"github.com/temirov/jsmigrate/internal/migrate/testsupport"
)

const (
	integrationGitExecutableConstant = "git"
	integrationRemoteDirectoryName   = "remote.git"
	integrationWorkDirectoryName     = "work"
)

func runGit(testInstance *testing.T, workingDirectory string, arguments ...string) string {
	testInstance.Helper()
	gitCommand := exec.Command(integrationGitExecutableConstant, arguments...)
	gitCommand.Dir = workingDirectory
	output, runError := gitCommand.CombinedOutput()
	require.NoError(testInstance, runError, string(output))
	return strings.TrimSpace(string(output))
}

func TestServiceExecutePublishesToRemote(testInstance *testing.T) {
	if _, lookupError := exec.LookPath(integrationGitExecutableConstant); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	sandboxDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", sandboxDirectory)
	testInstance.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	testInstance.Setenv("GIT_AUTHOR_NAME", "Migration Test")
	testInstance.Setenv("GIT_AUTHOR_EMAIL", "migration@example.com")
	testInstance.Setenv("GIT_COMMITTER_NAME", "Migration Test")
	testInstance.Setenv("GIT_COMMITTER_EMAIL", "migration@example.com")

	remoteDirectory := filepath.Join(sandboxDirectory, integrationRemoteDirectoryName)
	runGit(testInstance, sandboxDirectory, "init", "--bare", remoteDirectory)

	repositoryRoot := filepath.Join(sandboxDirectory, integrationWorkDirectoryName)
	runGit(testInstance, sandboxDirectory, "init", repositoryRoot)
	runGit(testInstance, repositoryRoot, "symbolic-ref", "HEAD", "refs/heads/main")
	require.NoError(testInstance, testsupport.WriteTree(repositoryRoot, sampleRepositoryFiles()))
	runGit(testInstance, repositoryRoot, "add", ".")
	runGit(testInstance, repositoryRoot, "commit", "-m", "initial")
	runGit(testInstance, repositoryRoot, "remote", "add", "origin", remoteDirectory)
	runGit(testInstance, repositoryRoot, "push", "origin", "main")

	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)
	service, serviceError := migrate.NewService(migrate.ServiceDependencies{
		Logger:      zap.NewNop(),
		FileSystem:  filesystem.OSFileSystem{},
		GitExecutor: shellExecutor,
	})
	require.NoError(testInstance, serviceError)

	result, executionError := service.Execute(context.Background(), defaultMigrationOptions(repositoryRoot))
	require.NoError(testInstance, executionError)
	require.True(testInstance, result.Publish.Published)

	require.Equal(testInstance, defaultCommitMessageTextConstant, runGit(testInstance, sandboxDirectory, "--git-dir", remoteDirectory, "log", "-1", "--format=%s", "main"))

	publishedFiles := strings.Split(runGit(testInstance, sandboxDirectory, "--git-dir", remoteDirectory, "ls-tree", "-r", "--name-only", "main"), "\n")
	require.ElementsMatch(testInstance, []string{
		"B_Templates/api.js",
		"B_Templates/db.js",
		"F_Templates/README.md",
		"F_Templates/src/App.jsx",
		"F_Templates/src/util.js",
		"package.json",
	}, publishedFiles)

	_, secondError := service.Execute(context.Background(), defaultMigrationOptions(repositoryRoot))
	var commandFailure execshell.CommandFailedError
	require.ErrorAs(testInstance, secondError, &commandFailure)
	require.Equal(testInstance, "commit", commandFailure.Command.Details.Arguments[0])
}
