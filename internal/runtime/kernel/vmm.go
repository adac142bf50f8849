// Package kernel provides advanced virtual memory management
package kernel

import (
	"fmt"
	"sync"
	"unsafe"
)

// ============================================================================
// Advanced Virtual Memory Management
// ============================================================================

// PageTableEntry represents a page table entry
type PageTableEntry uint64

const (
	PTE_PRESENT      PageTableEntry = 1 << 0
	PTE_WRITABLE     PageTableEntry = 1 << 1
	PTE_USER         PageTableEntry = 1 << 2
	PTE_WRITETHROUGH PageTableEntry = 1 << 3
	PTE_NOCACHE      PageTableEntry = 1 << 4
	PTE_ACCESSED     PageTableEntry = 1 << 5
	PTE_DIRTY        PageTableEntry = 1 << 6
	PTE_HUGE         PageTableEntry = 1 << 7
	PTE_GLOBAL       PageTableEntry = 1 << 8
	PTE_NOEXECUTE    PageTableEntry = 1 << 63
)

// PageTable represents a page table structure
type PageTable struct {
	entries [512]PageTableEntry // 512 entries for x86_64
	mutex   sync.RWMutex
}

// VirtualMemoryManager manages virtual address spaces
type VirtualMemoryManager struct {
	pageDirectories map[uint32]*PageTable // PID -> Page Directory
	kernelPGD       *PageTable            // Kernel page global directory
	mutex           sync.RWMutex
	nextVirtAddr    uintptr
}

// GlobalVMM provides global virtual memory management
var GlobalVMM *VirtualMemoryManager

// InitializeVMM initializes the virtual memory manager
func InitializeVMM() error {
	if GlobalVMM != nil {
		return fmt.Errorf("VMM already initialized")
	}

	// Create kernel page global directory
	kernelPGD := &PageTable{}

	GlobalVMM = &VirtualMemoryManager{
		pageDirectories: make(map[uint32]*PageTable),
		kernelPGD:       kernelPGD,
		nextVirtAddr:    0x40000000, // Start at 1GB
	}

	// Map kernel space (identity mapping for first 16MB)
	err := GlobalVMM.mapKernelSpace()
	if err != nil {
		return fmt.Errorf("failed to map kernel space: %w", err)
	}

	return nil
}

// mapKernelSpace sets up kernel space mapping
func (vmm *VirtualMemoryManager) mapKernelSpace() error {
	// Map first 16MB as identity mapping for kernel
	for addr := uintptr(0); addr < 0x1000000; addr += DefaultPageSize {
		err := vmm.mapPage(0, addr, addr, PTE_PRESENT|PTE_WRITABLE)
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateAddressSpace creates a new virtual address space for a process
func (vmm *VirtualMemoryManager) CreateAddressSpace(pid uint32) error {
	vmm.mutex.Lock()
	defer vmm.mutex.Unlock()

	if _, exists := vmm.pageDirectories[pid]; exists {
		return fmt.Errorf("address space for PID %d already exists", pid)
	}

	// Create new page directory
	pgd := &PageTable{}

	// Copy kernel mappings (higher half)
	vmm.kernelPGD.mutex.RLock()
	for i := 256; i < 512; i++ { // Upper half for kernel
		pgd.entries[i] = vmm.kernelPGD.entries[i]
	}
	vmm.kernelPGD.mutex.RUnlock()

	vmm.pageDirectories[pid] = pgd
	return nil
}

// mapPage maps a virtual page to a physical page
func (vmm *VirtualMemoryManager) mapPage(pid uint32, virtAddr, physAddr uintptr, flags PageTableEntry) error {
	vmm.mutex.RLock()
	pgd, exists := vmm.pageDirectories[pid]
	if pid != 0 && !exists {
		vmm.mutex.RUnlock()
		return fmt.Errorf("address space for PID %d not found", pid)
	}

	if pid == 0 {
		pgd = vmm.kernelPGD
	}
	vmm.mutex.RUnlock()

	// Extract page table indices
	_ = (virtAddr >> 39) & 0x1FF // pdpIndex - for future multi-level page tables
	_ = (virtAddr >> 30) & 0x1FF // pdIndex
	_ = (virtAddr >> 21) & 0x1FF // ptIndex
	pageIndex := (virtAddr >> 12) & 0x1FF

	pgd.mutex.Lock()
	defer pgd.mutex.Unlock()

	// For simplicity, we'll use a flat page table approach
	// In a real implementation, you'd need multi-level page tables
	index := pageIndex
	if index >= 512 {
		return fmt.Errorf("page index out of range: %d", index)
	}

	// Set the page table entry
	pgd.entries[index] = PageTableEntry(physAddr&^0xFFF) | flags

	return nil
}

// unmapPage unmaps a virtual page
func (vmm *VirtualMemoryManager) unmapPage(pid uint32, virtAddr uintptr) error {
	vmm.mutex.RLock()
	pgd, exists := vmm.pageDirectories[pid]
	if pid != 0 && !exists {
		vmm.mutex.RUnlock()
		return fmt.Errorf("address space for PID %d not found", pid)
	}

	if pid == 0 {
		pgd = vmm.kernelPGD
	}
	vmm.mutex.RUnlock()

	pageIndex := (virtAddr >> 12) & 0x1FF

	pgd.mutex.Lock()
	defer pgd.mutex.Unlock()

	if pageIndex >= 512 {
		return fmt.Errorf("page index out of range: %d", pageIndex)
	}

	pgd.entries[pageIndex] = 0

	// Invalidate TLB entry
	vmm.invalidateTLB(virtAddr)

	return nil
}

// translateAddress translates virtual address to physical address
func (vmm *VirtualMemoryManager) translateAddress(pid uint32, virtAddr uintptr) (uintptr, error) {
	vmm.mutex.RLock()
	pgd, exists := vmm.pageDirectories[pid]
	if pid != 0 && !exists {
		vmm.mutex.RUnlock()
		return 0, fmt.Errorf("address space for PID %d not found", pid)
	}

	if pid == 0 {
		pgd = vmm.kernelPGD
	}
	vmm.mutex.RUnlock()

	pageIndex := (virtAddr >> 12) & 0x1FF
	offset := virtAddr & 0xFFF

	pgd.mutex.RLock()
	defer pgd.mutex.RUnlock()

	if pageIndex >= 512 {
		return 0, fmt.Errorf("page index out of range: %d", pageIndex)
	}

	entry := pgd.entries[pageIndex]
	if entry&PTE_PRESENT == 0 {
		return 0, fmt.Errorf("page not present")
	}

	physBase := uintptr(entry &^ 0xFFF)
	return physBase + offset, nil
}

// invalidateTLB invalidates TLB entry for given virtual address
func (vmm *VirtualMemoryManager) invalidateTLB(virtAddr uintptr) {
	// Platform-specific implementation
	// On x86_64, this would use the `invlpg` instruction
}

// ============================================================================
// Memory Protection and Security
// ============================================================================

// MemoryProtection represents memory protection attributes
type MemoryProtection uint32

const (
	PROT_NONE  MemoryProtection = 0
	PROT_READ  MemoryProtection = 1 << 0
	PROT_WRITE MemoryProtection = 1 << 1
	PROT_EXEC  MemoryProtection = 1 << 2
)

// VMemoryRegion represents a contiguous virtual memory region
type VMemoryRegion struct {
	Start      uintptr
	End        uintptr
	Protection MemoryProtection
	Flags      uint32
	File       *File
	FileOffset uint64
	Name       string
}

// ProcessMemoryMap manages memory regions for a process
type ProcessMemoryMap struct {
	regions []*VMemoryRegion
	mutex   sync.RWMutex
}

// AddRegion adds a memory region to the process
func (pmm *ProcessMemoryMap) AddRegion(region *VMemoryRegion) error {
	pmm.mutex.Lock()
	defer pmm.mutex.Unlock()

	// Check for overlaps
	for _, existing := range pmm.regions {
		if region.Start < existing.End && region.End > existing.Start {
			return fmt.Errorf("memory region overlaps with existing region")
		}
	}

	pmm.regions = append(pmm.regions, region)
	return nil
}

// RemoveRegion removes a memory region
func (pmm *ProcessMemoryMap) RemoveRegion(start, end uintptr) error {
	pmm.mutex.Lock()
	defer pmm.mutex.Unlock()

	for i, region := range pmm.regions {
		if region.Start == start && region.End == end {
			pmm.regions = append(pmm.regions[:i], pmm.regions[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("memory region not found")
}

// FindRegion finds a memory region containing the given address
func (pmm *ProcessMemoryMap) FindRegion(addr uintptr) *VMemoryRegion {
	pmm.mutex.RLock()
	defer pmm.mutex.RUnlock()

	for _, region := range pmm.regions {
		if addr >= region.Start && addr < region.End {
			return region
		}
	}

	return nil
}

// ============================================================================
// Advanced page fault handling
// ============================================================================

// PageFaultInfo contains information about a page fault
type PageFaultInfo struct {
	FaultAddress     uintptr
	ErrorCode        uint64
	PID              uint32
	RIP              uint64
	Present          bool
	Write            bool
	User             bool
	ReservedBit      bool
	InstructionFetch bool
}

// AdvancedPageFaultHandler handles advanced page faults
type AdvancedPageFaultHandler struct {
	vmm   *VirtualMemoryManager
	stats *PageFaultStats
	mutex sync.RWMutex
}

// PageFaultStats tracks page fault statistics
type PageFaultStats struct {
	TotalFaults      uint64
	MinorFaults      uint64 // Page was swapped out
	MajorFaults      uint64 // Page was not allocated
	ProtectionFaults uint64 // Protection violation
	COWFaults        uint64 // Copy-on-write faults
}

// GlobalAdvancedPageFaultHandler provides global page fault handling
var GlobalAdvancedPageFaultHandler *AdvancedPageFaultHandler

// InitializePageFaultHandler initializes the page fault handler
func InitializePageFaultHandler() error {
	if GlobalAdvancedPageFaultHandler != nil {
		return fmt.Errorf("page fault handler already initialized")
	}

	GlobalAdvancedPageFaultHandler = &AdvancedPageFaultHandler{
		vmm:   GlobalVMM,
		stats: &PageFaultStats{},
	}

	return nil
}

// HandlePageFault handles a page fault
func (pfh *AdvancedPageFaultHandler) HandlePageFault(info *PageFaultInfo) error {
	pfh.mutex.Lock()
	defer pfh.mutex.Unlock()

	pfh.stats.TotalFaults++

	// Decode error code
	info.Present = (info.ErrorCode & 1) != 0
	info.Write = (info.ErrorCode & 2) != 0
	info.User = (info.ErrorCode & 4) != 0
	info.ReservedBit = (info.ErrorCode & 8) != 0
	info.InstructionFetch = (info.ErrorCode & 16) != 0

	if !info.Present {
		return pfh.handlePageNotPresent(info)
	} else if info.Write {
		return pfh.handleWriteProtection(info)
	} else {
		return pfh.handleOtherFault(info)
	}
}

// handlePageNotPresent handles page not present faults
func (pfh *AdvancedPageFaultHandler) handlePageNotPresent(info *PageFaultInfo) error {
	pfh.stats.MajorFaults++

	// Allocate a new page
	physPage, err := GlobalKernel.PhysicalMemory.AllocatePage()
	if err != nil {
		return fmt.Errorf("failed to allocate page: %w", err)
	}

	// Map the page
	flags := PTE_PRESENT | PTE_USER
	if info.Write {
		flags |= PTE_WRITABLE
	}

	pageAddr := info.FaultAddress &^ 0xFFF
	err = pfh.vmm.mapPage(info.PID, pageAddr, physPage, flags)
	if err != nil {
		GlobalKernel.PhysicalMemory.FreePage(physPage)
		return fmt.Errorf("failed to map page: %w", err)
	}

	// Zero the page
	pagePtr := (*[DefaultPageSize]byte)(unsafe.Pointer(physPage))
	for i := range pagePtr {
		pagePtr[i] = 0
	}

	return nil
}

// handleWriteProtection handles write protection faults
func (pfh *AdvancedPageFaultHandler) handleWriteProtection(info *PageFaultInfo) error {
	pfh.stats.ProtectionFaults++

	// This could be a copy-on-write fault
	// For now, just return an error
	return fmt.Errorf("write protection violation at 0x%x", info.FaultAddress)
}

// handleOtherFault handles other types of faults
func (pfh *AdvancedPageFaultHandler) handleOtherFault(info *PageFaultInfo) error {
	return fmt.Errorf("unhandled page fault at 0x%x, error code: 0x%x",
		info.FaultAddress, info.ErrorCode)
}

// ============================================================================
// Copy-on-Write (COW) implementation
// ============================================================================

// COWManager manages copy-on-write pages
type COWManager struct {
	cowPages map[uintptr]*COWPage
	mutex    sync.RWMutex
}

// COWPage represents a copy-on-write page
type COWPage struct {
	PhysicalAddr uintptr
	RefCount     uint32
	Original     bool
	mutex        sync.RWMutex
}

// GlobalCOWManager provides global COW management
var GlobalCOWManager *COWManager

// InitializeCOW initializes the copy-on-write manager
func InitializeCOW() error {
	if GlobalCOWManager != nil {
		return fmt.Errorf("COW manager already initialized")
	}

	GlobalCOWManager = &COWManager{
		cowPages: make(map[uintptr]*COWPage),
	}

	return nil
}

// MarkCOW marks a page as copy-on-write
func (cow *COWManager) MarkCOW(virtAddr, physAddr uintptr) {
	cow.mutex.Lock()
	defer cow.mutex.Unlock()

	if cowPage, exists := cow.cowPages[physAddr]; exists {
		cowPage.mutex.Lock()
		cowPage.RefCount++
		cowPage.mutex.Unlock()
	} else {
		cow.cowPages[physAddr] = &COWPage{
			PhysicalAddr: physAddr,
			RefCount:     1,
			Original:     true,
		}
	}
}

// HandleCOWFault handles a copy-on-write fault
func (cow *COWManager) HandleCOWFault(pid uint32, virtAddr uintptr) error {
	// Get the original physical page
	physAddr, err := GlobalVMM.translateAddress(pid, virtAddr)
	if err != nil {
		return err
	}

	cow.mutex.RLock()
	cowPage, exists := cow.cowPages[physAddr]
	cow.mutex.RUnlock()

	if !exists {
		return fmt.Errorf("page is not marked as COW")
	}

	cowPage.mutex.Lock()
	defer cowPage.mutex.Unlock()

	if cowPage.RefCount == 1 {
		// We're the only reference, just mark as writable
		return GlobalVMM.mapPage(pid, virtAddr&^0xFFF, physAddr,
			PTE_PRESENT|PTE_WRITABLE|PTE_USER)
	}

	// Need to copy the page
	newPhysPage, err := GlobalKernel.PhysicalMemory.AllocatePage()
	if err != nil {
		return fmt.Errorf("failed to allocate new page: %w", err)
	}

	// Copy data from original page
	originalData := (*[DefaultPageSize]byte)(unsafe.Pointer(physAddr))
	newData := (*[DefaultPageSize]byte)(unsafe.Pointer(newPhysPage))
	copy(newData[:], originalData[:])

	// Update page table
	err = GlobalVMM.mapPage(pid, virtAddr&^0xFFF, newPhysPage,
		PTE_PRESENT|PTE_WRITABLE|PTE_USER)
	if err != nil {
		GlobalKernel.PhysicalMemory.FreePage(newPhysPage)
		return err
	}

	// Decrease reference count
	cowPage.RefCount--

	return nil
}

// ============================================================================
// Kernel API functions for advanced VMM
// ============================================================================

// KernelCreateAddressSpace creates a new address space
func KernelCreateAddressSpace(pid uint32) bool {
	if GlobalVMM == nil {
		return false
	}

	err := GlobalVMM.CreateAddressSpace(pid)
	return err == nil
}

// KernelMapPage maps a virtual page to a physical page
func KernelMapPage(pid uint32, virtAddr, physAddr uintptr, writable, user bool) bool {
	if GlobalVMM == nil {
		return false
	}

	flags := PTE_PRESENT
	if writable {
		flags |= PTE_WRITABLE
	}
	if user {
		flags |= PTE_USER
	}

	err := GlobalVMM.mapPage(pid, virtAddr, physAddr, flags)
	return err == nil
}

// KernelUnmapPage unmaps a virtual page
func KernelUnmapPage(pid uint32, virtAddr uintptr) bool {
	if GlobalVMM == nil {
		return false
	}

	err := GlobalVMM.unmapPage(pid, virtAddr)
	return err == nil
}

// KernelTranslateAddress translates virtual address to physical
func KernelTranslateAddress(pid uint32, virtAddr uintptr) uintptr {
	if GlobalVMM == nil {
		return 0
	}

	physAddr, err := GlobalVMM.translateAddress(pid, virtAddr)
	if err != nil {
		return 0
	}

	return physAddr
}

// KernelHandlePageFault handles a page fault
func KernelHandlePageFault(pid uint32, faultAddr uintptr, errorCode uint64, rip uint64) bool {
	if GlobalAdvancedPageFaultHandler == nil {
		return false
	}

	info := &PageFaultInfo{
		FaultAddress: faultAddr,
		ErrorCode:    errorCode,
		PID:          pid,
		RIP:          rip,
	}

	err := GlobalAdvancedPageFaultHandler.HandlePageFault(info)
	return err == nil
}
