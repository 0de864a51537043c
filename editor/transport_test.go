package editor

import (
	"context"
	"sync"

	"github.com/jaivial/backofficereact-sub001/entity"
)

// fakeTransport จด call ทุกอันไว้ให้ assert และแจก id แบบ server จริง
type fakeTransport struct {
	mu sync.Mutex

	basicsCalls   []entity.MenuBasicsPayload
	sectionCalls  [][]entity.SectionPayload
	dishBulkCalls []fakeDishBulkCall
	dishPatches   []fakeDishPatch
	catalogCalls  []entity.CatalogDishPayload
	uploadCalls   int
	enhanceCalls  int
	publishCalls  int

	nextSectionID uint
	nextDishID    uint
	nextCatalogID uint

	basicsErr   error
	sectionsErr error
	dishesErr   error

	// gate: call แรกของ PutSectionDishes จะรอจนกว่า channel ถูกปิด (one-shot)
	dishesGate    chan struct{}
	dishesEntered chan struct{}
	// fotoURL ที่จะตอบกลับใน bulk ครั้งถัดไป
	bulkFotoURL string
}

type fakeDishBulkCall struct {
	menuID    uint
	sectionID uint
	dishes    []entity.DishPayload
}

type fakeDishPatch struct {
	menuID    uint
	sectionID uint
	dishID    uint
	dish      entity.DishPayload
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{nextSectionID: 100, nextDishID: 500, nextCatalogID: 900}
}

func (f *fakeTransport) PatchBasics(ctx context.Context, menuID uint, p entity.MenuBasicsPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.basicsErr != nil {
		return f.basicsErr
	}
	f.basicsCalls = append(f.basicsCalls, p)
	return nil
}

func (f *fakeTransport) PutSections(ctx context.Context, menuID uint, sections []entity.SectionPayload) ([]entity.SectionPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sectionsErr != nil {
		return nil, f.sectionsErr
	}
	f.sectionCalls = append(f.sectionCalls, sections)
	out := make([]entity.SectionPayload, len(sections))
	for i, s := range sections {
		out[i] = s
		if out[i].ID == 0 {
			f.nextSectionID++
			out[i].ID = f.nextSectionID
		}
	}
	return out, nil
}

func (f *fakeTransport) PutSectionDishes(ctx context.Context, menuID, sectionID uint, dishes []entity.DishPayload) ([]entity.DishPayload, error) {
	f.mu.Lock()
	gate := f.dishesGate
	f.dishesGate = nil
	foto := f.bulkFotoURL
	f.mu.Unlock()
	if gate != nil {
		if f.dishesEntered != nil {
			f.dishesEntered <- struct{}{}
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dishesErr != nil {
		return nil, f.dishesErr
	}
	f.dishBulkCalls = append(f.dishBulkCalls, fakeDishBulkCall{menuID: menuID, sectionID: sectionID, dishes: dishes})
	out := make([]entity.DishPayload, len(dishes))
	for i, d := range dishes {
		out[i] = d
		if out[i].ID == 0 {
			f.nextDishID++
			out[i].ID = f.nextDishID
		}
		if foto != "" {
			out[i].FotoURL = foto
		}
	}
	return out, nil
}

func (f *fakeTransport) PatchSectionDish(ctx context.Context, menuID, sectionID, dishID uint, d entity.DishPayload) (*entity.DishPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dishPatches = append(f.dishPatches, fakeDishPatch{menuID: menuID, sectionID: sectionID, dishID: dishID, dish: d})
	out := d
	out.ID = dishID
	return &out, nil
}

func (f *fakeTransport) UpsertCatalogDish(ctx context.Context, p entity.CatalogDishPayload) (uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogCalls = append(f.catalogCalls, p)
	f.nextCatalogID++
	return f.nextCatalogID, nil
}

func (f *fakeTransport) UploadDishImage(ctx context.Context, menuID, sectionID, dishID uint, img []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	return "/uploads/dishes/test.jpg", nil
}

func (f *fakeTransport) RequestDishImageEnhance(ctx context.Context, menuID, sectionID, dishID uint, img []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enhanceCalls++
	return nil
}

func (f *fakeTransport) Publish(ctx context.Context, menuID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publishCalls++
	return nil
}

func (f *fakeTransport) counts() (basics, sections, bulks, patches, catalogs int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.basicsCalls), len(f.sectionCalls), len(f.dishBulkCalls), len(f.dishPatches), len(f.catalogCalls)
}
