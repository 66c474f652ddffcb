// Package upload stores files submitted alongside forms.
//
// Files arrive through the multipart Handler (or an out-of-band
// uploader) and are parked in a Store under a minted temp ID. The form
// submission references temp IDs through the multi-file wire shape
// (Field[tmp_name][Uploads][i] and its sibling attribute arrays), which
// ParseSet decodes. Accepted submissions Claim their files exactly once;
// abandoned ones age out via Cleanup.
//
// Two backends ship: DiskStore for local temp storage and S3Store for a
// bucket-backed deployment.
package upload
