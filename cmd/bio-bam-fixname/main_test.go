package main_test

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"v.io/x/lib/gosh"
)

const testSAM = `@HD	VN:1.3	SO:queryname
@SQ	SN:chr1	LN:10000
read1/1	99	chr1	123	60	10M	=	456	343	ACGTACGTAC	ABCDEFGHIJ	RG:Z:NA12878
read1/2	147	chr1	456	60	10M	=	123	-343	ACGTACGTAC	ABCDEFGHIJ	RG:Z:NA12878
`

// run executes the command and returns its stdout, stderr and exit code.
func run(t *testing.T, bin string, args ...string) (string, string, int) {
	cmd := exec.Command(bin, args...)
	stdout := bytes.NewBuffer(nil)
	stderr := bytes.NewBuffer(nil)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		return stdout.String(), stderr.String(), 0
	}
	exitErr, ok := err.(*exec.ExitError)
	require.Truef(t, ok, "%s %v: %v", bin, args, err)
	return stdout.String(), stderr.String(), exitErr.ExitCode()
}

func writeBAM(t *testing.T, path, text string) {
	r, err := sam.NewReader(strings.NewReader(text))
	require.NoError(t, err)
	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := bam.NewWriter(f, r.Header(), 1)
	require.NoError(t, err)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func readNames(t *testing.T, path string) []string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() // nolint: errcheck
	r, err := bam.NewReader(f, 1)
	require.NoError(t, err)
	var names []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, rec.Name)
	}
	require.NoError(t, r.Close())
	return names
}

func TestFixName(t *testing.T) {
	sh := gosh.NewShell(t)
	defer sh.Cleanup()
	tempDir := sh.MakeTempDir()
	fixname := gosh.BuildGoPkg(sh, tempDir, "github.com/grailbio/bamfix/cmd/bio-bam-fixname")

	inPath := filepath.Join(tempDir, "in.bam")
	outPath := filepath.Join(tempDir, "out.bam")
	writeBAM(t, inPath, testSAM)

	stdout, stderr, code := run(t, fixname, "-verify", inPath, outPath)
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Equal(t, "", stdout)
	assert.Equal(t, []string{"read1", "read1"}, readNames(t, outPath))

	stdout, stderr, code = run(t, fixname, "-suffix-len=4", outPath, filepath.Join(tempDir, "out2.bam"))
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Equal(t, []string{"r", "r"}, readNames(t, filepath.Join(tempDir, "out2.bam")))
}

func TestFixNameUsage(t *testing.T) {
	sh := gosh.NewShell(t)
	defer sh.Cleanup()
	tempDir := sh.MakeTempDir()
	fixname := gosh.BuildGoPkg(sh, tempDir, "github.com/grailbio/bamfix/cmd/bio-bam-fixname")

	for _, args := range [][]string{
		nil,
		{filepath.Join(tempDir, "in.bam")},
	} {
		stdout, stderr, code := run(t, fixname, args...)
		assert.Equal(t, 1, code, "args: %v", args)
		assert.Contains(t, stderr, "Usage: bio-bam-fixname")
		assert.Equal(t, "", stdout)
	}
	// No output is created on a usage error.
	_, err := os.Stat(filepath.Join(tempDir, "in.bam"))
	assert.True(t, os.IsNotExist(err))
}

func TestFixNameErrors(t *testing.T) {
	sh := gosh.NewShell(t)
	defer sh.Cleanup()
	tempDir := sh.MakeTempDir()
	fixname := gosh.BuildGoPkg(sh, tempDir, "github.com/grailbio/bamfix/cmd/bio-bam-fixname")

	missing := filepath.Join(tempDir, "nonexistent.bam")
	outPath := filepath.Join(tempDir, "out.bam")
	_, stderr, code := run(t, fixname, missing, outPath)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, missing)
	_, err := os.Stat(outPath)
	assert.True(t, os.IsNotExist(err))

	// A name that is not longer than the suffix fails the run unless
	// -keep-short-names is set.
	inPath := filepath.Join(tempDir, "short.bam")
	writeBAM(t, inPath, strings.Replace(testSAM, "read1/2", "r2", 1))
	_, stderr, code = run(t, fixname, inPath, outPath)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "too short")
	_, err = os.Stat(outPath)
	assert.True(t, os.IsNotExist(err))

	_, stderr, code = run(t, fixname, "-keep-short-names", inPath, outPath)
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Equal(t, []string{"read1", "r2"}, readNames(t, outPath))
}
