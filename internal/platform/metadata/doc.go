// Package metadata reads node attributes set at cluster provisioning time.
//
// [Client] queries the GCE metadata server over HTTP, [CommandSource] shells
// out to the image's get_metadata_value helper, and [Static] returns a
// fixed value. An attribute that is not set reads as the empty string;
// any other failure is an error.
package metadata
