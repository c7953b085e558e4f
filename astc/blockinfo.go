package astc

// GetBlockInfo decodes one physical block into a descriptive record:
// encoding classification, endpoint colors, per-texel weights, and the
// partition assignment. The block is interpreted with the context's block
// footprint and profile.
func (c *Context) GetBlockInfo(block [BlockBytes]byte) (BlockInfo, error) {
	if c == nil {
		return BlockInfo{}, newError(ErrBadContext, "astc: nil context")
	}
	if contextState(c.state.Load()) == ctxClosed {
		return BlockInfo{}, newError(ErrBadContext, "astc: context closed")
	}

	info := BlockInfo{}
	info.Profile = c.cfg.Profile
	info.BlockX = uint32(c.blockX)
	info.BlockY = uint32(c.blockY)
	info.BlockZ = uint32(c.blockZ)
	info.TexelCount = uint32(c.blockX * c.blockY * c.blockZ)

	scb := physicalToSymbolicWithCoding(block[:], c.coding)
	info.IsErrorBlock = scb.blockType == symBlockError
	if info.IsErrorBlock {
		return info, nil
	}

	info.IsConstantBlock = scb.blockType == symBlockConstU16 || scb.blockType == symBlockConstF16
	if info.IsConstantBlock {
		return info, nil
	}

	bmi := c.coding.blockModes[scb.blockMode]
	if !bmi.ok {
		info.IsErrorBlock = true
		return info, nil
	}

	info.IsDualPlaneBlock = bmi.isDualPlane
	info.PartitionCount = uint32(scb.partitionCount)
	info.PartitionIndex = uint32(scb.partitionIndex)
	info.DualPlaneComponent = uint32(scb.plane2Component)

	info.WeightX = uint32(bmi.xWeights)
	info.WeightY = uint32(bmi.yWeights)
	info.WeightZ = uint32(bmi.zWeights)

	info.ColorLevelCount = uint32(quantLevel(scb.quantMode))
	info.WeightLevelCount = uint32(quantLevel(bmi.weightQuant))

	for p := 0; p < int(scb.partitionCount); p++ {
		format := scb.colorFormats[p]
		info.ColorEndpointModes[p] = uint32(format)

		rgbHDR, alphaHDR, e0, e1 := unpackColorEndpoints(c.cfg.Profile, format, scb.colorValues[p][:])
		info.IsHDRBlock = info.IsHDRBlock || rgbHDR || alphaHDR

		for j := 0; j < 2; j++ {
			v := e0
			if j == 1 {
				v = e1
			}
			for ch := 0; ch < 4; ch++ {
				u := uint16(v[ch])
				hdr := rgbHDR
				if ch == 3 {
					hdr = alphaHDR
				}
				if hdr {
					info.ColorEndpoints[p][j][ch] = lnsToFloat32Table[u]
				} else {
					info.ColorEndpoints[p][j][ch] = unorm16ToFloat32Table[u]
				}
			}
		}
	}

	texelCount := c.coding.texelCount
	if bmi.noDecimation {
		for t := 0; t < texelCount; t++ {
			info.WeightValuesPlane1[t] = float32(scb.weights[t]) * (1.0 / 64.0)
			if info.IsDualPlaneBlock {
				info.WeightValuesPlane2[t] = float32(scb.weights[weightsPlane2Offset+t]) * (1.0 / 64.0)
			}
		}
	} else {
		dec := bmi.decimation
		wvals := scb.weights[:]
		for t := 0; t < texelCount; t++ {
			e := dec[t]
			sum1 := uint32(8)
			sum1 += uint32(wvals[e.idx[0]]) * uint32(e.w[0])
			sum1 += uint32(wvals[e.idx[1]]) * uint32(e.w[1])
			sum1 += uint32(wvals[e.idx[2]]) * uint32(e.w[2])
			sum1 += uint32(wvals[e.idx[3]]) * uint32(e.w[3])
			info.WeightValuesPlane1[t] = float32(sum1>>4) * (1.0 / 64.0)

			if info.IsDualPlaneBlock {
				sum2 := uint32(8)
				sum2 += uint32(wvals[int(e.idx[0])+weightsPlane2Offset]) * uint32(e.w[0])
				sum2 += uint32(wvals[int(e.idx[1])+weightsPlane2Offset]) * uint32(e.w[1])
				sum2 += uint32(wvals[int(e.idx[2])+weightsPlane2Offset]) * uint32(e.w[2])
				sum2 += uint32(wvals[int(e.idx[3])+weightsPlane2Offset]) * uint32(e.w[3])
				info.WeightValuesPlane2[t] = float32(sum2>>4) * (1.0 / 64.0)
			}
		}
	}

	if pc := int(scb.partitionCount); pc >= 2 && pc <= blockMaxPartitions {
		if pt := c.coding.partitionTables[pc]; pt != nil {
			assign := pt.partitionsForIndex(int(scb.partitionIndex))
			copy(info.PartitionAssignment[:texelCount], assign[:texelCount])
		}
	}

	return info, nil
}
