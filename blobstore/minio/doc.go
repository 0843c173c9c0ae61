// Package minio stores seqgo containers in MinIO or any other S3-compatible
// object store (Ceph, Garage, SeaweedFS) through the MinIO Go client.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "cohorts", "1kg/chr22/")
//	root, err := arraystore.OpenContainer(ctx, store)
//
// Every blob of a container lives under the store prefix, so several
// containers can share one bucket.
package minio
