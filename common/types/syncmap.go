package types

import "sync"

type SyncMap struct {
	data map[string]interface{}
	lock *sync.RWMutex
}

func NewSyncMap() *SyncMap {
	return &SyncMap{
		data: make(map[string]interface{}, 0),
		lock: &sync.RWMutex{},
	}
}

func (wmap *SyncMap) GetGeneric(id string) interface{} {
	var res interface{}
	present := false

	wmap.lock.RLock()
	if res, present = wmap.data[id]; !present {
		res = nil
	}
	wmap.lock.RUnlock()

	return res
}

func (wmap *SyncMap) Set(id string, item interface{}) error {
	wmap.lock.Lock()
	wmap.data[id] = item
	wmap.lock.Unlock()

	return nil
}

func (wmap *SyncMap) Remove(id string) {
	wmap.lock.Lock()
	delete(wmap.data, id)
	wmap.lock.Unlock()
}

func (wmap *SyncMap) Size() int {
	wmap.lock.RLock()
	size := len(wmap.data)
	wmap.lock.RUnlock()

	return size
}

// Each calls cbk for every entry; entries added or removed while Each
// runs are not reflected in the iteration.
func (wmap *SyncMap) Each(cbk func(id string, item interface{})) {
	wmap.lock.RLock()
	snapshot := make(map[string]interface{}, len(wmap.data))
	for id, item := range wmap.data {
		snapshot[id] = item
	}
	wmap.lock.RUnlock()

	for id, item := range snapshot {
		cbk(id, item)
	}
}
