// Package presigned issues SigV4 query-presigned PUT URLs for an
// S3-compatible bucket (Cloudflare R2 by default) and uploads files to them.
//
// # Server side
//
//	signer, err := presigned.New(
//	    presigned.WithAccountID(accountID),
//	    presigned.WithCredentials(accessKeyID, secretAccessKey),
//	    presigned.WithBucket("giveaway-images"),
//	)
//	url, err := signer.PresignPut("listings/3f9a.jpg")
//
// URLs sign only the host header and use UNSIGNED-PAYLOAD, so the browser
// streams the body straight to the bucket. Expiry is clamped to
// [1s, 7 days].
//
// # Client side
//
//	client := presigned.NewClient(presigned.WithConcurrency(3))
//	keys, err := client.UploadAll(ctx, uploads, files)
//
// keys come back in the order of files, ready to be used as listing images.
//
// # Local development
//
// Handlers mounts a bucket on a chi router that verifies the same
// signatures with VerifyRequest, so the whole upload flow runs without R2.
package presigned
