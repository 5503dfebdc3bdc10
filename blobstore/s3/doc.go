// Package s3 implements blobstore.Store on Amazon S3.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "sequences/")
//	err := snapshot.Save(ctx, store, "events.psq", seq)
//
// Puts go through the S3 transfer manager, which switches to multipart
// uploads for large snapshots.
package s3
