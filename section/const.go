package section

const (
	HeaderSize = 32 // fixed header size in bytes

	Magic   = "FTLY" // leading bytes of every series blob
	Version = 1      // current format version

	EndiannessMask  = 0x01 // option bit 0: 0=little, 1=big
	ReservedOptions = 0xFE // option bits that must be zero
)
