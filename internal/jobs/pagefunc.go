package jobs

// pageFunction runs inside the web-scraper actor's browser context. It pulls
// contact material out of body text, mailto/tel anchors, Cloudflare-encoded
// addresses, and JSON-LD structured data.
const pageFunction = `
async function pageFunction(context) {
  const uniq = (arr) => Array.from(new Set((arr || []).filter(Boolean)));
  const metaContent = (sel) => {
    const el = document.querySelector(sel);
    return el ? (el.content || el.getAttribute('content') || '').trim() : '';
  };
  const safeText = (el) => (el ? (el.textContent || '').trim() : '');

  let bodyText = '';
  try { bodyText = document.body ? (document.body.innerText || '') : ''; } catch (e) {}

  const plainEmails = (bodyText.match(/[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}/gi) || []).map(s => s.trim());

  const obfus = [];
  const lowered = (bodyText || '').toLowerCase();
  const obfusRe = /([a-z0-9._%+-]+)\s*(\(|\[)?\s*at\s*(\)|\])?\s*([a-z0-9.-]+)\s*(\(|\[)?\s*dot\s*(\)|\])?\s*([a-z]{2,})/gi;
  let m;
  while ((m = obfusRe.exec(lowered)) !== null) {
    obfus.push(m[1] + '@' + m[4] + '.' + m[7]);
  }

  const emailsFromHref = [];
  const phones = [];
  try {
    for (const a of Array.from(document.querySelectorAll('a[href]'))) {
      const href = (a.getAttribute('href') || '').trim();
      if (/^mailto:/i.test(href)) {
        const m = href.replace(/^mailto:/i, '').split('?')[0];
        if (m) emailsFromHref.push(m);
      }
      if (/^tel:/i.test(href)) {
        const t = href.replace(/^tel:/i, '');
        if (t) phones.push(t);
      }
    }
  } catch (_) {}

  function cfDecode(cfhex) {
    try {
      const r = parseInt(cfhex.substr(0, 2), 16);
      let email = '';
      for (let n = 2; n < cfhex.length; n += 2) {
        const charCode = parseInt(cfhex.substr(n, 2), 16) ^ r;
        email += String.fromCharCode(charCode);
      }
      return email;
    } catch (e) { return null; }
  }
  const cfEmails = [];
  try {
    for (const el of Array.from(document.querySelectorAll('[data-cfemail]'))) {
      const hex = el.getAttribute('data-cfemail');
      const dec = hex ? cfDecode(hex) : null;
      if (dec) cfEmails.push(dec);
    }
    const html = document.documentElement ? (document.documentElement.innerHTML || '') : '';
    const cfRe = /data-cfemail="([0-9a-fA-F]+)"/g;
    let mm;
    while ((mm = cfRe.exec(html)) !== null) {
      const dec = cfDecode(mm[1]);
      if (dec) cfEmails.push(dec);
    }
  } catch (_) {}

  let linkedins = [];
  try {
    linkedins = Array.from(document.querySelectorAll('a[href*="linkedin.com"]')).map(a => a.href);
  } catch (_) {}

  const title = safeText(document.querySelector('title'));
  const siteName = metaContent('meta[property="og:site_name"]') || metaContent('meta[property="og:title"]') || title;

  let ratingValue = null, reviewCount = null, address = null, schemaType = null, structuredTelephones = [];
  try {
    const scripts = Array.from(document.querySelectorAll('script[type="application/ld+json"]'));
    for (const s of scripts) {
      const txt = s.textContent || s.innerText || '';
      if (!txt) continue;
      try {
        const json = JSON.parse(txt);
        const arr = Array.isArray(json) ? json : [json];
        for (const obj of arr) {
          const t = obj['@type'];
          if (!schemaType && t) schemaType = Array.isArray(t) ? t.join(',') : t;
          if (obj.aggregateRating) {
            if (obj.aggregateRating.ratingValue && !ratingValue) ratingValue = obj.aggregateRating.ratingValue;
            if (obj.aggregateRating.reviewCount && !reviewCount) reviewCount = obj.aggregateRating.reviewCount;
          }
          if (obj.address && !address) {
            const a = obj.address;
            address = {
              city: a.addressLocality || null,
              region: a.addressRegion || null,
              country: a.addressCountry || null,
            };
          }
          if (obj.telephone) {
            const tel = Array.isArray(obj.telephone) ? obj.telephone : [obj.telephone];
            structuredTelephones.push(...tel.map(String));
          }
          if (obj.sameAs) {
            const arrSame = Array.isArray(obj.sameAs) ? obj.sameAs : [obj.sameAs];
            linkedins.push(...arrSame.filter(u => typeof u === 'string' && u.includes('linkedin.com')));
          }
        }
      } catch (_) {}
    }
  } catch (_) {}

  const emails = uniq([].concat(plainEmails, obfus, cfEmails, emailsFromHref));

  return {
    pageUrl: location.href,
    siteName,
    title,
    emails,
    phones: uniq(phones),
    linkedins: uniq(linkedins),
    ratingValue,
    reviewCount,
    address,
    schemaType: schemaType || null,
    structuredTelephones: uniq(structuredTelephones),
  };
}
`
