// Package minio implements blobstore.Store on MinIO and other S3-compatible
// object stores (Ceph, SeaweedFS, Garage).
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "sequences/")
//	err = snapshot.Save(ctx, store, "events.psq", seq)
//
// No AWS SDK is required, which keeps air-gapped deployments simple.
package minio
