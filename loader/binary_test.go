package loader_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sim8086/loader"
)

var _ = Describe("Binary Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "binary-loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("with a raw machine-code file", func() {
			var binPath string

			BeforeEach(func() {
				binPath = filepath.Join(tempDir, "listing_0037")
				Expect(os.WriteFile(binPath, []byte{0x89, 0xD9}, 0o644)).To(Succeed())
			})

			It("should load the bytes unchanged", func() {
				prog, err := loader.Load(binPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Data).To(Equal([]byte{0x89, 0xD9}))
				Expect(prog.Size()).To(Equal(2))
				Expect(prog.Path).To(Equal(binPath))
			})
		})

		Context("with an empty file", func() {
			It("should load an empty program", func() {
				binPath := filepath.Join(tempDir, "empty")
				Expect(os.WriteFile(binPath, nil, 0o644)).To(Succeed())

				prog, err := loader.Load(binPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Size()).To(Equal(0))
			})
		})

		Context("with invalid paths", func() {
			It("should fail for a missing file", func() {
				_, err := loader.Load(filepath.Join(tempDir, "missing"))
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to open program file"))
				Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
			})

			It("should fail for a directory", func() {
				_, err := loader.Load(tempDir)
				Expect(err).To(MatchError(ContainSubstring("is a directory")))
			})
		})

		Context("with a file larger than the address space", func() {
			It("should refuse to load it", func() {
				binPath := filepath.Join(tempDir, "huge")
				f, err := os.Create(binPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(f.Truncate(loader.MaxProgramSize + 1)).To(Succeed())
				Expect(f.Close()).To(Succeed())

				_, err = loader.Load(binPath)
				Expect(err).To(MatchError(ContainSubstring("larger than")))
			})
		})
	})
})
