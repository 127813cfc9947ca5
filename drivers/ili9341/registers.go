package ili9341

// Panel geometry in the default portrait orientation.
const (
	Width  = 240
	Height = 320
)

// Commands used by this driver.
const (
	SLPOUT   = 0x11 // sleep out
	GAMMASET = 0x26
	DISPON   = 0x29
	CASET    = 0x2A // column address set
	PASET    = 0x2B // page address set
	RAMWR    = 0x2C // memory write
	MADCTL   = 0x36
	VSCRSADD = 0x37
	PIXFMT   = 0x3A
	FRMCTR1  = 0xB1
	DFUNCTR  = 0xB6
	ENTRYMOD = 0xB7
	PWCTR1   = 0xC0
	PWCTR2   = 0xC1
	VMCTR1   = 0xC5
	VMCTR2   = 0xC7
	PWCTRA   = 0xCB
	PWCTRB   = 0xCF
	GMCTRP1  = 0xE0
	GMCTRN1  = 0xE1
	DTCA     = 0xE8
	DTCB     = 0xEA
	POSC     = 0xED
	EN3G     = 0xF2
	PRC      = 0xF7
)

const (
	initDelay = 0x80 // count flag: sleep after the command
	initCount = 0x1F // count mask
	initEnd   = 0xFF // sentinel count
)

// initSequence is command, count, data... repeated, ended by a 0xFF count.
var initSequence = []byte{
	PWCTRB, 3, 0x00, 0xC1, 0x30,
	POSC, 4, 0x64, 0x03, 0x12, 0x81,
	DTCA, 3, 0x85, 0x00, 0x78,
	PWCTRA, 5, 0x39, 0x2C, 0x00, 0x34, 0x02,
	PRC, 1, 0x20,
	DTCB, 2, 0x00, 0x00,
	PWCTR1, 1, 0x26,
	PWCTR2, 1, 0x11,
	VMCTR1, 2, 0x3E, 0x28,
	VMCTR2, 1, 0x86,
	MADCTL, 1, 0x48, // MX | BGR
	VSCRSADD, 1, 0x00,
	PIXFMT, 1, 0x55, // 16 bits per pixel
	FRMCTR1, 2, 0x00, 0x18,
	DFUNCTR, 3, 0x08, 0x82, 0x27,
	EN3G, 1, 0x08,
	GAMMASET, 1, 0x01,
	GMCTRP1, 15, 0x1F, 0x1A, 0x18, 0x0A, 0x0F, 0x06, 0x45, 0x87, 0x32, 0x0A, 0x07, 0x02, 0x07, 0x05, 0x00,
	GMCTRN1, 15, 0x00, 0x25, 0x27, 0x05, 0x10, 0x09, 0x3A, 0x78, 0x4D, 0x05, 0x18, 0x0D, 0x38, 0x3A, 0x1F,
	CASET, 4, 0x00, 0x00, 0x00, 0xEF,
	PASET, 4, 0x00, 0x00, 0x01, 0x3F,
	RAMWR, 0,
	ENTRYMOD, 1, 0x07,
	SLPOUT, initDelay,
	DISPON, initDelay,
	0x00, initEnd,
}
