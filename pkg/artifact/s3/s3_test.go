package s3_test

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/resumini/pkg/artifact"
	"github.com/papercomputeco/resumini/pkg/artifact/s3"
	"github.com/papercomputeco/resumini/pkg/logger"
)

type fakeClient struct {
	input *awss3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeClient) PutObject(_ context.Context, params *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	if f.err != nil {
		return nil, f.err
	}
	return &awss3.PutObjectOutput{}, nil
}

var _ = Describe("Store", func() {
	var (
		ctx    context.Context
		client *fakeClient
		store  *s3.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &fakeClient{}
		store = s3.NewStoreWithClient(client, "resumes", logger.Nop())
	})

	It("uploads the object and returns an s3 URI", func() {
		ref, err := store.Put(ctx, "/optimized/a.docx", []byte("payload"), "application/pdf")
		Expect(err).NotTo(HaveOccurred())
		Expect(ref.Location).To(Equal("s3://resumes/optimized/a.docx"))
		Expect(aws.ToString(client.input.Bucket)).To(Equal("resumes"))
		Expect(aws.ToString(client.input.Key)).To(Equal("optimized/a.docx"))
		Expect(aws.ToString(client.input.ContentType)).To(Equal("application/pdf"))
		Expect(string(client.body)).To(Equal("payload"))
	})

	It("wraps upload failures", func() {
		client.err = errors.New("access denied")
		_, err := store.Put(ctx, "a.pdf", []byte("x"), "")
		Expect(err).To(MatchError(artifact.ErrStore))
	})

	It("requires a bucket", func() {
		_, err := s3.NewStore(ctx, s3.Config{}, logger.Nop())
		Expect(err).To(MatchError(ContainSubstring("bucket is required")))
	})

	Describe("Endpoint", func() {
		It("prefers an explicit endpoint", func() {
			Expect(s3.Endpoint(s3.Config{Endpoint: "http://minio:9000", AccountID: "abc"})).To(Equal("http://minio:9000"))
		})

		It("derives the R2 endpoint from the account", func() {
			Expect(s3.Endpoint(s3.Config{AccountID: "abc"})).To(Equal("https://abc.r2.cloudflarestorage.com"))
		})

		It("leaves the AWS default alone", func() {
			Expect(s3.Endpoint(s3.Config{})).To(BeEmpty())
		})
	})
})
