package keys

import (
	"bytes"
	"fmt"
	"path"
)

const (
	listingHeaderTemplateConstant = "pub const %s: [[u8; %d]; %d] = [\n"
	listingEntryTemplateConstant  = "    include!(%q),\n"
	listingFooterConstant         = "];\n"
)

// ListingOptions shapes the generated Rust constant.
type ListingOptions struct {
	ConstantName     string
	KeyLength        int
	ShardCount       int
	IncludeDirectory string
}

// RenderListing emits one include! line per key file in the order given. The
// array length in the header is always the configured shard count.
func RenderListing(options ListingOptions, files []KeyFile) []byte {
	var listing bytes.Buffer
	fmt.Fprintf(&listing, listingHeaderTemplateConstant, options.ConstantName, options.KeyLength, options.ShardCount)
	for _, file := range files {
		fmt.Fprintf(&listing, listingEntryTemplateConstant, path.Join(options.IncludeDirectory, file.Name))
	}
	listing.WriteString(listingFooterConstant)
	return listing.Bytes()
}
