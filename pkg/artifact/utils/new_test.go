package artifactutils_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/resumini/pkg/artifact/local"
	artifactutils "github.com/papercomputeco/resumini/pkg/artifact/utils"
	"github.com/papercomputeco/resumini/pkg/logger"
)

var _ = Describe("NewStore", func() {
	ctx := context.Background()

	It("disables storage for none", func() {
		store, err := artifactutils.NewStore(ctx, &artifactutils.NewStoreOpts{ProviderType: "none"})
		Expect(err).NotTo(HaveOccurred())
		Expect(store).To(BeNil())
	})

	It("builds a local store", func() {
		store, err := artifactutils.NewStore(ctx, &artifactutils.NewStoreOpts{
			ProviderType: "local",
			Target:       filepath.Join(GinkgoT().TempDir(), "out"),
			Logger:       logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(store).To(BeAssignableToTypeOf(&local.Store{}))
	})

	It("rejects unknown providers", func() {
		_, err := artifactutils.NewStore(ctx, &artifactutils.NewStoreOpts{ProviderType: "gcs"})
		Expect(err).To(MatchError(ContainSubstring("unsupported artifact provider")))
	})
})
