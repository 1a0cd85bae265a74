// Package s3stream streams arbitrarily chunked data into an S3-compatible object
// store through the multipart upload protocol.
//
// The core type is Upload, a single-destination state machine that accumulates
// caller writes, ships every full part of exactly the configured part size as
// soon as it is available, and finalizes or aborts the server-side transaction.
// Storage is the facade that owns configuration and the object store gateway,
// and offers the single-shot operations around it: whole-file upload, URL
// generation, deletion and existence checks.
//
// A typical streaming upload:
//
//	store, err := s3stream.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//
//	up, err := store.NewUpload("videos/clip.mp4", -1)
//	if err != nil {
//	    return err
//	}
//	defer up.Close()
//
//	if err := up.Init(ctx); err != nil {
//	    return err
//	}
//	for chunk := range chunks {
//	    if err := up.Write(ctx, up.UploadedBytes(), chunk); err != nil {
//	        return err
//	    }
//	}
//	key, err := up.Complete(ctx)
//
// Close aborts an upload that was started but never completed, so the deferred
// call above is enough to avoid leaving an orphaned multipart upload behind.
package s3stream
