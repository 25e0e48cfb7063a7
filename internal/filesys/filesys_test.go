package filesys_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/alexzhang1030/composable-vue/internal/filesys"
	"github.com/alexzhang1030/composable-vue/internal/mocks"
)

type AtomicWriteTestSuite struct {
	suite.Suite
	dir string
}

func (s *AtomicWriteTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *AtomicWriteTestSuite) TestWritesNewFile() {
	dst := filepath.Join(s.dir, "docus.yaml")

	s.Require().NoError(filesys.AtomicWrite(filesys.OS(), dst, []byte("docus: {}\n"), 0o640))

	got, err := os.ReadFile(dst)
	s.Require().NoError(err)
	s.Equal("docus: {}\n", string(got))

	info, err := os.Stat(dst)
	s.Require().NoError(err)
	s.Equal(os.FileMode(0o640), info.Mode().Perm())
}

func (s *AtomicWriteTestSuite) TestReplacesExistingFile() {
	dst := filepath.Join(s.dir, "docus.yaml")
	s.Require().NoError(os.WriteFile(dst, []byte("old"), 0o644))

	s.Require().NoError(filesys.AtomicWrite(filesys.OS(), dst, []byte("new"), 0o644))

	got, err := os.ReadFile(dst)
	s.Require().NoError(err)
	s.Equal("new", string(got))

	entries, err := os.ReadDir(s.dir)
	s.Require().NoError(err)
	s.Len(entries, 1, "temp file must not be left behind")
}

func (s *AtomicWriteTestSuite) TestRenameFailureRemovesTemp() {
	dst := filepath.Join(s.dir, "docus.yaml")
	tmp, err := os.CreateTemp(s.dir, ".docus-*")
	s.Require().NoError(err)

	fs := new(mocks.MockFS)
	fs.On("CreateTemp", s.dir, ".docus-*").Return(tmp, nil)
	fs.On("Chmod", tmp.Name(), os.FileMode(0o644)).Return(nil)
	fs.On("Rename", tmp.Name(), dst).Return(errors.New("cross-device link"))
	fs.On("Remove", tmp.Name()).Return(nil)

	err = filesys.AtomicWrite(fs, dst, []byte("data"), 0o644)

	s.Require().Error(err)
	s.Contains(err.Error(), "cross-device link")
	fs.AssertExpectations(s.T())
	fs.AssertNotCalled(s.T(), "Open", mock.Anything)
}

func (s *AtomicWriteTestSuite) TestCreateTempFailure() {
	fs := new(mocks.MockFS)
	fs.On("CreateTemp", s.dir, ".docus-*").Return(nil, os.ErrPermission)

	err := filesys.AtomicWrite(fs, filepath.Join(s.dir, "docus.yaml"), []byte("data"), 0o644)

	s.ErrorIs(err, os.ErrPermission)
	fs.AssertExpectations(s.T())
}

func TestAtomicWriteSuite(t *testing.T) {
	suite.Run(t, new(AtomicWriteTestSuite))
}
