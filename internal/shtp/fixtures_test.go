package shtp

// advertisementFrame is a start-up advertisement captured from a BNO080: a
// Command channel frame whose length field carries the continuation bit.
var advertisementFrame = []byte{
	0x14, 0x81, 0x00, 0x01,
	0x00, 0x01, 0x04, 0x00, 0x00, 0x00, 0x00, 0x80, 0x06, 0x31, 0x2e, 0x30, 0x2e, 0x30, 0x00, 0x02,
	0x02, 0x00, 0x01, 0x03, 0x02, 0xff, 0x7f, 0x04, 0x02, 0x00, 0x01, 0x05, 0x02, 0xff, 0x7f, 0x08,
	0x05, 0x53, 0x48, 0x54, 0x50, 0x00, 0x06, 0x01, 0x00, 0x09, 0x08, 0x63, 0x6f, 0x6e, 0x74, 0x72,
	0x6f, 0x6c, 0x00, 0x01, 0x04, 0x01, 0x00, 0x00, 0x00, 0x08, 0x0b, 0x65, 0x78, 0x65, 0x63, 0x75,
	0x74, 0x61, 0x62, 0x6c, 0x65, 0x00, 0x06, 0x01, 0x01, 0x09, 0x07, 0x64, 0x65, 0x76, 0x69, 0x63,
	0x65, 0x00, 0x01, 0x04, 0x02, 0x00, 0x00, 0x00, 0x08, 0x0a, 0x73, 0x65, 0x6e, 0x73, 0x6f, 0x72,
	0x68, 0x75, 0x62, 0x00, 0x06, 0x01, 0x02, 0x09, 0x08, 0x63, 0x6f, 0x6e, 0x74, 0x72, 0x6f, 0x6c,
	0x00, 0x06, 0x01, 0x03, 0x09, 0x0c, 0x69, 0x6e, 0x70, 0x75, 0x74, 0x4e, 0x6f, 0x72, 0x6d, 0x61,
	0x6c, 0x00, 0x07, 0x01, 0x04, 0x09, 0x0a, 0x69, 0x6e, 0x70, 0x75, 0x74, 0x57, 0x61, 0x6b, 0x65,
	0x00, 0x06, 0x01, 0x05, 0x09, 0x0c, 0x69, 0x6e, 0x70, 0x75, 0x74, 0x47, 0x79, 0x72, 0x6f, 0x52,
	0x76, 0x00, 0x80, 0x06, 0x31, 0x2e, 0x31, 0x2e, 0x30, 0x00, 0x81, 0x64, 0xf8, 0x10, 0xf5, 0x04,
	0xf3, 0x10, 0xf1, 0x10, 0xfb, 0x05, 0xfa, 0x05, 0xfc, 0x11, 0xef, 0x02, 0x01, 0x0a, 0x02, 0x0a,
	0x03, 0x0a, 0x04, 0x0a, 0x05, 0x0e, 0x06, 0x0a, 0x07, 0x10, 0x08, 0x0c, 0x09, 0x0e, 0x0a, 0x08,
	0x0b, 0x08, 0x0c, 0x06, 0x0d, 0x06, 0x0e, 0x06, 0x0f, 0x10, 0x10, 0x05, 0x11, 0x0c, 0x12, 0x06,
	0x13, 0x06, 0x14, 0x10, 0x15, 0x10, 0x16, 0x10, 0x17, 0x00, 0x18, 0x08, 0x19, 0x06, 0x1a, 0x00,
	0x1b, 0x00, 0x1c, 0x06, 0x1d, 0x00, 0x1e, 0x10, 0x1f, 0x00, 0x20, 0x00, 0x21, 0x00, 0x22, 0x00,
	0x23, 0x00, 0x24, 0x00, 0x25, 0x00, 0x26, 0x00, 0x27, 0x00, 0x28, 0x0e, 0x29, 0x0c, 0x2a, 0x0e,
}

// mixedReportFrame is one 52-byte hub control transfer holding three
// back-to-back 16-byte product-ID responses.
var mixedReportFrame = []byte{
	0x34, 0x00, 0x02, 0x7b,
	0xf8, 0x00, 0x01, 0x02,
	0x96, 0xa4, 0x98, 0x00,
	0xe6, 0x00, 0x00, 0x00,
	0x04, 0x00, 0x00, 0x00,
	0xf8, 0x00, 0x04, 0x04,
	0x36, 0xa3, 0x98, 0x00,
	0x95, 0x01, 0x00, 0x00,
	0x02, 0x00, 0x00, 0x00,
	0xf8, 0x00, 0x04, 0x02,
	0xe3, 0xa2, 0x98, 0x00,
	0xd9, 0x01, 0x00, 0x00,
	0x07, 0x00, 0x00, 0x00,
}
